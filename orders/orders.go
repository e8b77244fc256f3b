package orders

import "time"

// DeliveryStatus is the backend's order delivery state. The values are
// verbatim what the API expects in update-order-status requests.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "Pending"
	StatusOnTheWay  DeliveryStatus = "On the Way"
	StatusDelivered DeliveryStatus = "Delivered"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Order is a customer order as assigned to a delivery partner.
type Order struct {
	ID                  string         `json:"_id"`
	OrderID             string         `json:"orderId"`
	UserID              string         `json:"userId"` // admin user that owns the order
	ShopName            string         `json:"shopName"`
	CustomerID          string         `json:"customerId"`
	CustomerName        string         `json:"customerName"`
	CustomerContact     string         `json:"customerContact"`
	CustomerAddress     string         `json:"customerAddress"`
	CustomerLat         *float64       `json:"customerLat,omitempty"`
	CustomerLng         *float64       `json:"customerLng,omitempty"`
	Items               []OrderItem    `json:"items"`
	Total               float64        `json:"total"`
	DeliveryStatus      DeliveryStatus `json:"deliveryStatus"`
	DeliveryPartnerID   string         `json:"deliveryPartnerId,omitempty"`
	DeliveryAssignedAt  *time.Time     `json:"deliveryAssignedAt,omitempty"`
	DeliveryCompletedAt *time.Time     `json:"deliveryCompletedAt,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// DeliveredGroup buckets completed orders by age for the delivered-orders
// screen.
type DeliveredGroup struct {
	Today     []Order `json:"today"`
	Yesterday []Order `json:"yesterday"`
	ThisWeek  []Order `json:"thisWeek"`
	Older     []Order `json:"older"`
}

// StickyNoteItem is one product line of an ad-hoc order.
type StickyNoteItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StickyNote is an ad-hoc order a partner logs on the spot, outside the
// normal order pipeline.
type StickyNote struct {
	CustomerName string           `json:"customerName"`
	Items        []StickyNoteItem `json:"items"`
	Notes        string           `json:"notes,omitempty"`
}
