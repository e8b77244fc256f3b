package products

// Product is an entry from the product search endpoint, used when composing
// sticky-note orders.
type Product struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
	Unit  string  `json:"unit,omitempty"`
}
