package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iceinventory/partner-core/partner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Storage keys. The persisted record is the triple (partner, scope, flag)
// plus a schema marker; either the whole triple is readable or none of it is
// treated as valid.
const (
	keyPartner  = "delivery_partner"
	keyScopeID  = "user_id"
	keyLoggedIn = "is_logged_in"
	keySchema   = "schema_version"

	schemaVersion = "1"
)

var persistedKeys = []string{keyPartner, keyScopeID, keyLoggedIn, keySchema}

// Manager is the single authority over the authenticated partner and the
// admin scope used to filter order queries. It persists its state across
// restarts and revalidates the partner's status against the backend on
// restore.
//
// Mutating operations are serialized internally, but callers should still
// not overlap Login/Logout/Refresh from independent flows.
type Manager struct {
	store Store
	api   ProfileAPI
	log   zerolog.Logger

	stopReporter func() // invoked on logout, before state is cleared

	mu            sync.Mutex
	partner       *partner.DeliveryPartner
	scopeID       string
	authenticated bool
	resolving     bool
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithReporterStop registers the hook that stops the location reporter when
// the session ends.
func WithReporterStop(stop func()) ManagerOption {
	return func(m *Manager) {
		m.stopReporter = stop
	}
}

// NewManager initializes a Manager with required dependencies. The manager
// starts in the resolving state; Restore must be called once at startup
// before Authenticated is meaningful.
func NewManager(store Store, api ProfileAPI, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, StoreRequiredErr
	}
	if api == nil {
		return nil, ProfileAPIRequiredErr
	}

	m := &Manager{
		store:     store,
		api:       api,
		log:       zerolog.Nop(),
		resolving: true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Restore loads the persisted session and revalidates it against the
// backend. Invoked once at startup. Any failure resolves to the anonymous
// state rather than an error: a missing or unreadable record simply means
// nobody is logged in, and a stale or unverifiable partner forces a logout.
func (m *Manager) Restore(ctx context.Context) error {
	defer func() {
		m.mu.Lock()
		m.resolving = false
		m.mu.Unlock()
	}()

	flag, err := m.store.Get(keyLoggedIn)
	if err != nil || flag != "true" {
		return nil
	}

	schema, err := m.store.Get(keySchema)
	if err != nil || schema != schemaVersion {
		// A record written by an incompatible app version is treated like a
		// missing record rather than decoded uncritically.
		m.log.Warn().Str("schema", schema).Msg("persisted session schema mismatch, discarding")
		return m.Logout(ctx)
	}

	rawPartner, err := m.store.Get(keyPartner)
	if err != nil || rawPartner == "" {
		return nil
	}
	scopeID, err := m.store.Get(keyScopeID)
	if err != nil || scopeID == "" {
		return nil
	}

	var stored partner.DeliveryPartner
	if err := json.Unmarshal([]byte(rawPartner), &stored); err != nil {
		m.log.Warn().Err(err).Msg("persisted partner record unreadable, discarding")
		return m.Logout(ctx)
	}

	fresh, err := m.api.PartnerProfile(ctx, stored.ID)
	if err != nil {
		m.log.Warn().Err(err).Str("partner_id", stored.ID).Msg("partner revalidation failed, logging out")
		return m.Logout(ctx)
	}
	if fresh.Status.Terminated() {
		m.log.Info().Str("partner_id", fresh.ID).Str("status", string(fresh.Status)).Msg("partner account terminated, logging out")
		return m.Logout(ctx)
	}

	m.mu.Lock()
	m.partner = fresh
	m.scopeID = scopeID
	m.authenticated = true
	m.mu.Unlock()

	m.log.Info().Str("partner_id", fresh.ID).Str("scope_id", scopeID).Msg("session restored")
	return nil
}

// Login adopts a server-issued partner identity. Credential and one-time-code
// verification has already happened by the time this is called. When scopeID
// is empty the admin scope is resolved from the partner record, falling back
// to the admin-email lookup; an unresolvable scope surfaces as
// UnlinkedAccountErr and the session stays anonymous.
func (m *Manager) Login(ctx context.Context, p *partner.DeliveryPartner, scopeID string) error {
	if p == nil {
		return NilPartnerErr
	}

	if scopeID == "" {
		resolved, err := m.resolveScope(ctx, p)
		if err != nil {
			return errors.Wrap(err, "[Manager.Login] resolve scope")
		}
		scopeID = resolved
	}

	if err := m.persist(p, scopeID); err != nil {
		// Never leave a half-written record behind.
		_ = m.store.Clear(persistedKeys)
		return errors.Wrap(err, "[Manager.Login] persist session")
	}

	m.mu.Lock()
	m.partner = p
	m.scopeID = scopeID
	m.authenticated = true
	m.mu.Unlock()

	m.log.Info().Str("partner_id", p.ID).Str("scope_id", scopeID).Msg("logged in")
	return nil
}

// Logout stops the location reporter, clears the persisted record, and
// clears the in-memory session. Idempotent: calling it while anonymous only
// re-clears storage.
func (m *Manager) Logout(ctx context.Context) error {
	if m.stopReporter != nil {
		m.stopReporter()
	}

	err := m.store.Clear(persistedKeys)

	m.mu.Lock()
	m.partner = nil
	m.scopeID = ""
	m.authenticated = false
	m.mu.Unlock()

	if err != nil {
		return errors.Wrap(err, "[Manager.Logout] clear storage")
	}
	m.log.Info().Msg("logged out")
	return nil
}

// Refresh re-fetches the partner profile and updates the session with it.
// A terminated or unverifiable partner forces a logout; the scope identifier
// never changes here. No-op while anonymous.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if !m.authenticated || m.partner == nil {
		m.mu.Unlock()
		return nil
	}
	partnerID := m.partner.ID
	scopeID := m.scopeID
	m.mu.Unlock()

	fresh, err := m.api.PartnerProfile(ctx, partnerID)
	if err != nil {
		m.log.Warn().Err(err).Str("partner_id", partnerID).Msg("profile refresh failed, logging out")
		return m.Logout(ctx)
	}
	if fresh.Status.Terminated() {
		return m.Logout(ctx)
	}

	if err := m.persist(fresh, scopeID); err != nil {
		return errors.Wrap(err, "[Manager.Refresh] persist refreshed partner")
	}

	m.mu.Lock()
	m.partner = fresh
	m.mu.Unlock()
	return nil
}

// resolveScope produces the admin scope identifier for a partner record:
// taken directly from the record when the backend linked it, otherwise looked
// up by the partner's declared admin email, taking the first match.
func (m *Manager) resolveScope(ctx context.Context, p *partner.DeliveryPartner) (string, error) {
	if p.CreatedByUser != "" {
		return p.CreatedByUser, nil
	}

	if p.AdminEmail == "" {
		return "", UnlinkedAccountErr
	}

	matches, err := m.api.PartnersByAdminEmail(ctx, p.AdminEmail)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.resolveScope] partner listing")
	}
	for _, match := range matches {
		if match.CreatedByUser != "" {
			return match.CreatedByUser, nil
		}
	}
	return "", UnlinkedAccountErr
}

func (m *Manager) persist(p *partner.DeliveryPartner, scopeID string) error {
	if scopeID == "" {
		return EmptyScopeErr
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "[Manager.persist] marshal partner")
	}
	if err := m.store.Set(keyPartner, string(raw)); err != nil {
		return errors.Wrap(err, "[Manager.persist] write partner")
	}
	if err := m.store.Set(keyScopeID, scopeID); err != nil {
		return errors.Wrap(err, "[Manager.persist] write scope")
	}
	if err := m.store.Set(keySchema, schemaVersion); err != nil {
		return errors.Wrap(err, "[Manager.persist] write schema version")
	}
	if err := m.store.Set(keyLoggedIn, "true"); err != nil {
		return errors.Wrap(err, "[Manager.persist] write login flag")
	}
	return nil
}

// Authenticated reports whether a valid session is active.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// Resolving reports whether Restore is still running. Callers must wait for
// this to turn false before trusting Authenticated.
func (m *Manager) Resolving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolving
}

// Partner returns the authenticated partner record, or nil while anonymous.
func (m *Manager) Partner() *partner.DeliveryPartner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.partner
}

// ScopeID returns the admin scope identifier for order queries, or "" while
// anonymous.
func (m *Manager) ScopeID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scopeID
}

// PartnerID returns the authenticated partner's identifier. Satisfies
// location.IdentitySource.
func (m *Manager) PartnerID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.authenticated || m.partner == nil {
		return "", false
	}
	return m.partner.ID, true
}
