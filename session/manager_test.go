package session_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/session"
	"github.com/iceinventory/partner-core/session/repofakes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testPartnerID  = "p1"
	testScopeID    = "a1"
	testAdminEmail = "admin@example.com"
)

// testFixture holds all test dependencies
type testFixture struct {
	store   *repofakes.FakeStore
	api     *repofakes.FakeProfileAPI
	manager *session.Manager

	reporterStops int
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		store: repofakes.NewFakeStore(),
		api:   repofakes.NewFakeProfileAPI(),
	}

	manager, err := session.NewManager(f.store, f.api,
		session.WithReporterStop(func() { f.reporterStops++ }),
	)
	require.NoError(t, err)
	f.manager = manager
	return f
}

func testPartner(status partner.Status) *partner.DeliveryPartner {
	return &partner.DeliveryPartner{
		ID:            testPartnerID,
		Name:          "John Doe",
		Email:         "john.doe@example.com",
		Phone:         "5550100",
		Status:        status,
		CreatedByUser: testScopeID,
	}
}

// seedPersistedSession writes the full persisted triple as Login would.
func (f *testFixture) seedPersistedSession(t *testing.T, p *partner.DeliveryPartner, scopeID string) {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	f.store.Seed("delivery_partner", string(raw))
	f.store.Seed("user_id", scopeID)
	f.store.Seed("schema_version", "1")
	f.store.Seed("is_logged_in", "true")
}

func TestNewManagerRequiresDependencies(t *testing.T) {
	_, err := session.NewManager(nil, repofakes.NewFakeProfileAPI())
	require.ErrorIs(t, err, session.StoreRequiredErr)

	_, err = session.NewManager(repofakes.NewFakeStore(), nil)
	require.ErrorIs(t, err, session.ProfileAPIRequiredErr)
}

func TestRestoreHappyPathIsReadOnly(t *testing.T) {
	f := setupTestFixture(t)
	f.seedPersistedSession(t, testPartner(partner.StatusApproved), testScopeID)
	f.api.SetProfile(testPartner(partner.StatusApproved))

	require.True(t, f.manager.Resolving())
	require.NoError(t, f.manager.Restore(context.Background()))

	require.False(t, f.manager.Resolving())
	require.True(t, f.manager.Authenticated())
	require.Equal(t, testPartnerID, f.manager.Partner().ID)
	require.Equal(t, testScopeID, f.manager.ScopeID())
	require.Equal(t, 1, f.api.ProfileCalls)
	require.Zero(t, f.store.SetCalls, "happy-path restore must not write to storage")
	require.Zero(t, f.store.ClearCalls)
}

func TestRestoreWithoutPersistedFlagMakesNoNetworkCalls(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Restore(context.Background()))

	require.False(t, f.manager.Authenticated())
	require.False(t, f.manager.Resolving())
	require.Zero(t, f.api.ProfileCalls)
	require.Zero(t, f.api.ListCalls)
}

func TestRestoreClearsStaleSession(t *testing.T) {
	for _, status := range []partner.Status{partner.StatusDeleted, partner.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := setupTestFixture(t)
			f.seedPersistedSession(t, testPartner(partner.StatusApproved), testScopeID)
			f.api.SetProfile(testPartner(status))

			require.NoError(t, f.manager.Restore(context.Background()))

			require.False(t, f.manager.Authenticated())
			require.Nil(t, f.manager.Partner())
			require.Zero(t, f.store.Len(), "persisted record must be empty after forced logout")
		})
	}
}

func TestRestoreLogsOutWhenRevalidationFails(t *testing.T) {
	f := setupTestFixture(t)
	f.seedPersistedSession(t, testPartner(partner.StatusApproved), testScopeID)
	f.api.ProfileErr = errors.New("backend unreachable")

	require.NoError(t, f.manager.Restore(context.Background()))

	require.False(t, f.manager.Authenticated())
	require.Zero(t, f.store.Len())
}

func TestRestoreDiscardsSchemaMismatch(t *testing.T) {
	f := setupTestFixture(t)
	f.seedPersistedSession(t, testPartner(partner.StatusApproved), testScopeID)
	f.store.Seed("schema_version", "0")

	require.NoError(t, f.manager.Restore(context.Background()))

	require.False(t, f.manager.Authenticated())
	require.Zero(t, f.api.ProfileCalls, "an incompatible record is discarded without revalidation")
	require.Zero(t, f.store.Len())
}

func TestRestoreMissingPartnerOrScopeStaysAnonymous(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Seed("is_logged_in", "true")
	f.store.Seed("schema_version", "1")

	require.NoError(t, f.manager.Restore(context.Background()))

	require.False(t, f.manager.Authenticated())
	require.Zero(t, f.api.ProfileCalls)
}

func TestLoginPersistsFullTriple(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID))

	require.True(t, f.manager.Authenticated())
	flag, _ := f.store.Get("is_logged_in")
	require.Equal(t, "true", flag)
	scope, _ := f.store.Get("user_id")
	require.Equal(t, testScopeID, scope)
	raw, _ := f.store.Get("delivery_partner")
	var stored partner.DeliveryPartner
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Equal(t, testPartnerID, stored.ID)
}

func TestLoginResolvesScopeDirectly(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), ""))

	require.Equal(t, testScopeID, f.manager.ScopeID())
	require.Zero(t, f.api.ListCalls, "direct scope field wins without a listing call")
}

func TestLoginScopeFallbackViaAdminEmail(t *testing.T) {
	f := setupTestFixture(t)
	p := testPartner(partner.StatusApproved)
	p.CreatedByUser = ""
	p.AdminEmail = testAdminEmail
	f.api.SetAdminListing(testAdminEmail, []partner.DeliveryPartner{
		{ID: "p2", CreatedByUser: "A1"},
	})

	require.NoError(t, f.manager.Login(context.Background(), p, ""))

	require.True(t, f.manager.Authenticated())
	require.Equal(t, "A1", f.manager.ScopeID())
	require.Equal(t, 1, f.api.ListCalls)
}

func TestLoginUnlinkedAccountSurfacesDistinctly(t *testing.T) {
	f := setupTestFixture(t)
	p := testPartner(partner.StatusApproved)
	p.CreatedByUser = ""
	p.AdminEmail = ""

	err := f.manager.Login(context.Background(), p, "")
	require.ErrorIs(t, err, session.UnlinkedAccountErr)
	require.False(t, f.manager.Authenticated())
	require.Zero(t, f.store.Len(), "nothing may be persisted for an unlinked account")
}

func TestLoginUnlinkedWhenListingHasNoScope(t *testing.T) {
	f := setupTestFixture(t)
	p := testPartner(partner.StatusApproved)
	p.CreatedByUser = ""
	p.AdminEmail = testAdminEmail
	f.api.SetAdminListing(testAdminEmail, []partner.DeliveryPartner{{ID: "p2"}})

	err := f.manager.Login(context.Background(), p, "")
	require.ErrorIs(t, err, session.UnlinkedAccountErr)
	require.False(t, f.manager.Authenticated())
}

func TestLoginPersistenceFailurePropagatesAndClears(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SetErr = errors.New("disk full")

	err := f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID)
	require.Error(t, err)
	require.False(t, f.manager.Authenticated())
	require.NotZero(t, f.store.ClearCalls, "a failed write must not leave a partial record")
}

func TestLogoutStopsReporterAndClearsEverything(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID))

	require.NoError(t, f.manager.Logout(context.Background()))

	require.Equal(t, 1, f.reporterStops)
	require.False(t, f.manager.Authenticated())
	require.Nil(t, f.manager.Partner())
	require.Empty(t, f.manager.ScopeID())
	require.Zero(t, f.store.Len())
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Logout(context.Background()))
	require.NoError(t, f.manager.Logout(context.Background()))
	require.Equal(t, 2, f.reporterStops)
	require.False(t, f.manager.Authenticated())
}

func TestRestoreAfterLogoutMakesNoNetworkCalls(t *testing.T) {
	f := setupTestFixture(t)
	f.api.SetProfile(testPartner(partner.StatusApproved))
	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID))
	require.NoError(t, f.manager.Logout(context.Background()))

	// Simulated process restart: a fresh manager over the same store.
	restarted, err := session.NewManager(f.store, f.api)
	require.NoError(t, err)
	require.NoError(t, restarted.Restore(context.Background()))

	require.False(t, restarted.Authenticated())
	require.Zero(t, f.api.ProfileCalls)
}

func TestRefreshUpdatesPartnerKeepsScope(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID))

	updated := testPartner(partner.StatusApproved)
	updated.Phone = "5550999"
	f.api.SetProfile(updated)

	require.NoError(t, f.manager.Refresh(context.Background()))

	require.Equal(t, "5550999", f.manager.Partner().Phone)
	require.Equal(t, testScopeID, f.manager.ScopeID())
	raw, _ := f.store.Get("delivery_partner")
	var stored partner.DeliveryPartner
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Equal(t, "5550999", stored.Phone)
}

func TestRefreshLogsOutTerminatedPartner(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.manager.Login(context.Background(), testPartner(partner.StatusApproved), testScopeID))
	f.api.SetProfile(testPartner(partner.StatusDeleted))

	require.NoError(t, f.manager.Refresh(context.Background()))

	require.False(t, f.manager.Authenticated())
	require.Zero(t, f.store.Len())
}

func TestRefreshIsNoOpWhileAnonymous(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Refresh(context.Background()))
	require.Zero(t, f.api.ProfileCalls)
}

// End-to-end restore scenario: persisted approved partner, fresh profile
// matches, final state authenticated with the persisted scope, read-only.
func TestRestoreEndToEnd(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Seed("is_logged_in", "true")
	f.store.Seed("schema_version", "1")
	f.store.Seed("user_id", "a1")
	f.store.Seed("delivery_partner", `{"_id":"p1","status":"approved","createdByUser":"a1"}`)
	f.api.SetProfile(&partner.DeliveryPartner{ID: "p1", Status: partner.StatusApproved, CreatedByUser: "a1"})

	require.NoError(t, f.manager.Restore(context.Background()))

	require.True(t, f.manager.Authenticated())
	require.Equal(t, "p1", f.manager.Partner().ID)
	require.Equal(t, "a1", f.manager.ScopeID())
	require.Zero(t, f.store.SetCalls)

	id, ok := f.manager.PartnerID()
	require.True(t, ok)
	require.Equal(t, "p1", id)
}
