package repofakes

import (
	"context"
	"sync"

	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/session"
	"github.com/pkg/errors"
)

var _ session.ProfileAPI = (*FakeProfileAPI)(nil)

// FakeProfileAPI serves canned partner records and counts backend calls.
type FakeProfileAPI struct {
	lock     sync.Mutex
	profiles map[string]*partner.DeliveryPartner
	byAdmin  map[string][]partner.DeliveryPartner

	ProfileCalls int
	ListCalls    int

	ProfileErr error
	ListErr    error
}

func NewFakeProfileAPI() *FakeProfileAPI {
	return &FakeProfileAPI{
		profiles: make(map[string]*partner.DeliveryPartner),
		byAdmin:  make(map[string][]partner.DeliveryPartner),
	}
}

func (f *FakeProfileAPI) PartnerProfile(_ context.Context, partnerID string) (*partner.DeliveryPartner, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ProfileCalls++
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	p, ok := f.profiles[partnerID]
	if !ok {
		return nil, errors.New("partner not found")
	}
	copied := *p
	return &copied, nil
}

func (f *FakeProfileAPI) PartnersByAdminEmail(_ context.Context, email string) ([]partner.DeliveryPartner, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.byAdmin[email], nil
}

// SetProfile registers the record returned for a partner ID.
func (f *FakeProfileAPI) SetProfile(p *partner.DeliveryPartner) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.profiles[p.ID] = p
}

// SetAdminListing registers the records returned for an admin email.
func (f *FakeProfileAPI) SetAdminListing(email string, ps []partner.DeliveryPartner) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.byAdmin[email] = ps
}
