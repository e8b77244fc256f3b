package partner

import "time"

// Status represents the approval state of a delivery partner account as
// reported by the backend.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusDeleted  Status = "deleted"
)

// LastLocation is the most recent position the backend has recorded for a
// partner.
type LastLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DeliveryPartner is a delivery-partner account, scoped to the organisation
// (admin user) that created it.
type DeliveryPartner struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	AdminEmail    string        `json:"adminEmail,omitempty"`    // email of the admin account this partner belongs to
	Status        Status        `json:"status"`
	CreatedByUser string        `json:"createdByUser,omitempty"` // admin user ID, when the backend links it directly
	LastLocation  *LastLocation `json:"lastLocation,omitempty"`
}

// Terminated reports whether the status means the account can no longer hold
// an authenticated session.
func (s Status) Terminated() bool {
	return s == StatusDeleted || s == StatusRejected
}

// Active reports whether the partner may operate (take orders, report
// location).
func (p *DeliveryPartner) Active() bool {
	return p.Status == StatusApproved
}
