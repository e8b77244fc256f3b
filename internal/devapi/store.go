package devapi

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iceinventory/partner-core/customers"
	ierrors "github.com/iceinventory/partner-core/internal/errors"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/products"
)

// fixtureStore is the in-memory backing of the development API.
type fixtureStore struct {
	mu        sync.RWMutex
	partners  map[string]*partner.DeliveryPartner
	orders    map[string]*orders.Order
	customers map[string]*customers.Customer
	products  map[string]*products.Product
	history   []customers.SearchHistory
	otps      map[string]string // email -> pending code
	locations map[string]partner.LastLocation
}

func newFixtureStore() *fixtureStore {
	return &fixtureStore{
		partners:  make(map[string]*partner.DeliveryPartner),
		orders:    make(map[string]*orders.Order),
		customers: make(map[string]*customers.Customer),
		products:  make(map[string]*products.Product),
		otps:      make(map[string]string),
		locations: make(map[string]partner.LastLocation),
	}
}

func (s *fixtureStore) addPartner(p partner.DeliveryPartner) *partner.DeliveryPartner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.partners[p.ID] = &p
	return &p
}

func (s *fixtureStore) getPartner(id string) (*partner.DeliveryPartner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partners[id]
	if !ok {
		return nil, ierrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fixtureStore) partnersByAdminEmail(email string) []partner.DeliveryPartner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []partner.DeliveryPartner
	for _, p := range s.partners {
		if strings.EqualFold(p.AdminEmail, email) {
			out = append(out, *p)
		}
	}
	return out
}

func (s *fixtureStore) partnerByEmail(email string) (*partner.DeliveryPartner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.partners {
		if strings.EqualFold(p.Email, email) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ierrors.ErrNotFound
}

func (s *fixtureStore) addOrder(o orders.Order) *orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.orders[o.ID] = &o
	return &o
}

func (s *fixtureStore) ordersForScope(adminUserID, partnerID string) []orders.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []orders.Order
	for _, o := range s.orders {
		if o.UserID != adminUserID {
			continue
		}
		if partnerID != "" && o.DeliveryPartnerID != partnerID {
			continue
		}
		if o.DeliveryStatus == orders.StatusDelivered {
			continue
		}
		out = append(out, *o)
	}
	return out
}

func (s *fixtureStore) deliveredForPartner(partnerID string) orders.DeliveredGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var group orders.DeliveredGroup
	for _, o := range s.orders {
		if o.DeliveryPartnerID != partnerID || o.DeliveryStatus != orders.StatusDelivered {
			continue
		}
		completed := now
		if o.DeliveryCompletedAt != nil {
			completed = *o.DeliveryCompletedAt
		}
		switch {
		case !completed.Before(startOfToday):
			group.Today = append(group.Today, *o)
		case !completed.Before(startOfToday.AddDate(0, 0, -1)):
			group.Yesterday = append(group.Yesterday, *o)
		case !completed.Before(startOfToday.AddDate(0, 0, -7)):
			group.ThisWeek = append(group.ThisWeek, *o)
		default:
			group.Older = append(group.Older, *o)
		}
	}
	return group
}

func (s *fixtureStore) updateOrderStatus(orderID string, status orders.DeliveryStatus, partnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return ierrors.ErrNotFound
	}
	o.DeliveryStatus = status
	o.DeliveryPartnerID = partnerID
	now := time.Now()
	switch status {
	case orders.StatusOnTheWay:
		o.DeliveryAssignedAt = &now
	case orders.StatusDelivered:
		o.DeliveryCompletedAt = &now
	}
	return nil
}

func (s *fixtureStore) addCustomer(c customers.Customer) *customers.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.customers[c.ID] = &c
	return &c
}

func (s *fixtureStore) searchCustomers(query string) []customers.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(query)
	var out []customers.Customer
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.ShopName), query) {
			out = append(out, *c)
		}
	}
	return out
}

func (s *fixtureStore) getCustomer(id string) (*customers.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ierrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fixtureStore) addProduct(p products.Product) *products.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.products[p.ID] = &p
	return &p
}

func (s *fixtureStore) searchProducts(query string) []products.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(query)
	var out []products.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, *p)
		}
	}
	return out
}

func (s *fixtureStore) saveHistory(partnerID, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return ierrors.ErrNotFound
	}
	s.history = append(s.history, customers.SearchHistory{
		ID:           uuid.New().String(),
		PartnerID:    partnerID,
		CustomerID:   customerID,
		CustomerName: c.Name,
		SearchedAt:   time.Now(),
	})
	return nil
}

func (s *fixtureStore) historyForPartner(partnerID string) []customers.SearchHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []customers.SearchHistory
	for _, h := range s.history {
		if h.PartnerID == partnerID {
			out = append(out, h)
		}
	}
	return out
}

func (s *fixtureStore) recordLocation(partnerID string, lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[partnerID]
	if !ok {
		return ierrors.ErrNotFound
	}
	if p.Status.Terminated() {
		return ierrors.ErrInvalidInput
	}
	s.locations[partnerID] = partner.LastLocation{Latitude: lat, Longitude: lng, UpdatedAt: time.Now()}
	return nil
}

func (s *fixtureStore) lastLocation(partnerID string) (partner.LastLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[partnerID]
	return loc, ok
}
