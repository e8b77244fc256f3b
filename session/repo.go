package session

import (
	"context"

	"github.com/iceinventory/partner-core/partner"
)

// Store is the durable key-value storage the session persists itself into.
// Get returns "" with a nil error when the key is absent; no transactionality
// is assumed across keys.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Clear(keys []string) error
}

// ProfileAPI is the slice of the backend the session manager needs: fresh
// partner records for revalidation, and the partner listing used by the
// scope-resolution fallback.
type ProfileAPI interface {
	PartnerProfile(ctx context.Context, partnerID string) (*partner.DeliveryPartner, error)
	PartnersByAdminEmail(ctx context.Context, email string) ([]partner.DeliveryPartner, error)
}
