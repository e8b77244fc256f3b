package customers

import (
	"encoding/json"
	"time"
)

// PhoneList tolerates the backend sending either a single phone number or an
// array of them for the same field.
type PhoneList []string

func (p *PhoneList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*p = nil
		} else {
			*p = PhoneList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*p = PhoneList(many)
	return nil
}

func (p PhoneList) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(p[0])
	}
	return json.Marshal([]string(p))
}

// Primary returns the first phone number, or "" when none are known.
func (p PhoneList) Primary() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Customer is a shop/customer record the partner delivers to.
type Customer struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	ShopName string    `json:"shopName"`
	Address  string    `json:"address"`
	Phone    PhoneList `json:"phone"`
	Lat      *float64  `json:"lat,omitempty"`
	Lng      *float64  `json:"lng,omitempty"`
}

// SearchHistory is one remembered customer lookup for a partner.
type SearchHistory struct {
	ID           string    `json:"_id"`
	PartnerID    string    `json:"partnerId"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	SearchedAt   time.Time `json:"searchedAt"`
}
