package delivery_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iceinventory/partner-core/customers"
	"github.com/iceinventory/partner-core/delivery"
	"github.com/iceinventory/partner-core/internal/config"
	"github.com/iceinventory/partner-core/internal/devapi"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/products"
	"github.com/stretchr/testify/require"
)

// testFixture holds all test dependencies
type testFixture struct {
	api    *devapi.Server
	server *httptest.Server
	client *delivery.Client
}

// setupTestFixture starts a dev API and points a client at it.
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	api := devapi.New()
	server := httptest.NewServer(api.Router(config.Cors{}))
	t.Cleanup(server.Close)

	return &testFixture{
		api:    api,
		server: server,
		client: delivery.NewClient(server.URL),
	}
}

func (f *testFixture) seedApprovedPartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()
	return f.api.SeedPartner(partner.DeliveryPartner{
		ID:            "p1",
		Name:          "John Doe",
		Email:         "john.doe@example.com",
		AdminEmail:    "admin@example.com",
		Status:        partner.StatusApproved,
		CreatedByUser: "a1",
	})
}

func TestPartnerProfileRoundTrip(t *testing.T) {
	f := setupTestFixture(t)
	f.seedApprovedPartner(t)

	p, err := f.client.PartnerProfile(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, partner.StatusApproved, p.Status)
	require.Equal(t, "a1", p.CreatedByUser)
}

func TestPartnerProfileNotFoundIsStatusError(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.client.PartnerProfile(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, delivery.IsStatus(err, http.StatusNotFound))
}

func TestPartnersByAdminEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.seedApprovedPartner(t)

	matches, err := f.client.PartnersByAdminEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "a1", matches[0].CreatedByUser)
}

func TestOTPLoginFlow(t *testing.T) {
	f := setupTestFixture(t)
	f.seedApprovedPartner(t)

	require.NoError(t, f.client.LoginOTP(context.Background(), "john.doe@example.com", "password123"))
	require.NoError(t, f.client.ResendOTP(context.Background(), "john.doe@example.com"))

	resp, err := f.client.VerifyOTP(context.Background(), "john.doe@example.com", "000000")
	require.NoError(t, err)
	require.Equal(t, "p1", resp.Partner.ID)
	require.Equal(t, "a1", resp.UserID)

	// The code is single-use.
	_, err = f.client.VerifyOTP(context.Background(), "john.doe@example.com", "000000")
	require.True(t, delivery.IsStatus(err, http.StatusUnauthorized))
}

func TestOrderLifecycle(t *testing.T) {
	f := setupTestFixture(t)
	p := f.seedApprovedPartner(t)
	o := f.api.SeedOrder(orders.Order{
		OrderID:           "ORD-1",
		UserID:            "a1",
		CustomerName:      "Corner Shop",
		DeliveryStatus:    orders.StatusPending,
		DeliveryPartnerID: p.ID,
	})

	pending, err := f.client.PendingOrders(context.Background(), "a1", p.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, o.ID, pending[0].ID)

	require.NoError(t, f.client.UpdateOrderStatus(context.Background(), o.ID, orders.StatusDelivered, p.ID))

	pending, err = f.client.PendingOrders(context.Background(), "a1", p.ID)
	require.NoError(t, err)
	require.Empty(t, pending)

	delivered, err := f.client.DeliveredOrders(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, delivered.Total)
	require.Len(t, delivered.Groups.Today, 1)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := setupTestFixture(t)
	p := f.seedApprovedPartner(t)
	o := f.api.SeedOrder(orders.Order{UserID: "a1", DeliveryPartnerID: p.ID, DeliveryStatus: orders.StatusPending})

	err := f.client.UpdateOrderStatus(context.Background(), o.ID, "Shipped", p.ID)
	require.True(t, delivery.IsStatus(err, http.StatusBadRequest))
}

func TestCustomerSearchAndHistory(t *testing.T) {
	f := setupTestFixture(t)
	p := f.seedApprovedPartner(t)
	c := f.api.SeedCustomer(customers.Customer{
		Name:     "Corner Shop",
		ShopName: "Corner Shop",
		Address:  "1 Market Street",
		Phone:    customers.PhoneList{"5550101", "5550102"},
	})

	found, err := f.client.SearchCustomers(context.Background(), "a1", "corner")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "5550101", found[0].Phone.Primary())

	details, err := f.client.CustomerDetails(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, details.ID)

	require.NoError(t, f.client.SaveSearchHistory(context.Background(), p.ID, c.ID))
	history, err := f.client.SearchHistory(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Corner Shop", history[0].CustomerName)
}

func TestStickyNoteAndProductSearch(t *testing.T) {
	f := setupTestFixture(t)
	p := f.seedApprovedPartner(t)
	prod := f.api.SeedProduct(products.Product{Name: "Ice Block 5kg", Price: 40})

	found, err := f.client.SearchProducts(context.Background(), "a1", "ice")
	require.NoError(t, err)
	require.Len(t, found, 1)

	err = f.client.CreateStickyNote(context.Background(), p.ID, "a1", orders.StickyNote{
		CustomerName: "Walk-in",
		Items:        []orders.StickyNoteItem{{ProductID: prod.ID, Quantity: 2}},
		Notes:        "cash on delivery",
	})
	require.NoError(t, err)

	pending, err := f.client.PendingOrders(context.Background(), "a1", p.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Walk-in", pending[0].CustomerName)
}

func TestPushLocationRoundTrip(t *testing.T) {
	f := setupTestFixture(t)
	p := f.seedApprovedPartner(t)

	require.NoError(t, f.client.PushLocation(context.Background(), p.ID, 12.9716, 77.5946))

	loc, ok := f.api.LastLocation(p.ID)
	require.True(t, ok)
	require.Equal(t, 12.9716, loc.Latitude)

	profile, err := f.client.PartnerProfile(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.LastLocation)
}

func TestPushLocationTerminatedPartnerIsForbidden(t *testing.T) {
	f := setupTestFixture(t)
	f.api.SeedPartner(partner.DeliveryPartner{ID: "p2", Status: partner.StatusDeleted})

	err := f.client.PushLocation(context.Background(), "p2", 1, 2)
	require.True(t, delivery.IsStatus(err, http.StatusForbidden))
}
