package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iceinventory/partner-core/customers"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/products"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// Client talks to the /delivery/* backend. It owns no state beyond the base
// URL and the shared http.Client; responsibility for timeouts sits entirely
// here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a delivery backend client rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// do performs a request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses become a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request")
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("url", u).Msg("backend request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Client.do] request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[Client.do] read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "[Client.do] parse response (status %d)", resp.StatusCode)
	}
	return nil
}

// RegisterRequest carries a new partner registration.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	AdminEmail string `json:"adminEmail"`
	Password   string `json:"password"`
}

// Register submits a partner registration. The account stays pending until
// the admin approves it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/delivery/register", nil, req, nil)
}

// LoginOTP checks credentials and triggers the one-time-code delivery.
func (c *Client) LoginOTP(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/delivery/login-otp", nil, body, nil)
}

// VerifyOTPResponse is the server-issued identity produced by a successful
// one-time-code exchange; it is what gets handed to session.Manager.Login.
type VerifyOTPResponse struct {
	Partner partner.DeliveryPartner `json:"partner"`
	UserID  string                  `json:"userId"`
	Message string                  `json:"message,omitempty"`
}

// VerifyOTP completes the login exchange.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*VerifyOTPResponse, error) {
	body := map[string]string{"email": email, "otp": otp}
	var out VerifyOTPResponse
	if err := c.do(ctx, http.MethodPost, "/delivery/verify-otp", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendOTP requests a fresh one-time code.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/delivery/resend-otp", nil, body, nil)
}

// PartnerProfile fetches the current partner record by ID.
func (c *Client) PartnerProfile(ctx context.Context, partnerID string) (*partner.DeliveryPartner, error) {
	q := url.Values{"partnerId": {partnerID}}
	var out partner.DeliveryPartner
	if err := c.do(ctx, http.MethodGet, "/delivery/profile", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PartnersByAdminEmail lists partner records registered under an admin email.
// Used by the session scope-resolution fallback.
func (c *Client) PartnersByAdminEmail(ctx context.Context, email string) ([]partner.DeliveryPartner, error) {
	q := url.Values{"adminEmail": {email}}
	var out struct {
		Partners []partner.DeliveryPartner `json:"partners"`
	}
	if err := c.do(ctx, http.MethodGet, "/delivery/partners", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Partners, nil
}

// PendingOrders returns the orders for the admin scope, optionally narrowed
// to one partner's assignments. The backend keys orders by the admin user,
// not the partner.
func (c *Client) PendingOrders(ctx context.Context, adminUserID, partnerID string) ([]orders.Order, error) {
	q := url.Values{"userId": {adminUserID}}
	if partnerID != "" {
		q.Set("partnerId", partnerID)
	}
	var out []orders.Order
	if err := c.do(ctx, http.MethodGet, "/delivery/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeliveredOrdersResponse groups a partner's completed orders by age.
type DeliveredOrdersResponse struct {
	Total  int                   `json:"total"`
	Groups orders.DeliveredGroup `json:"groups"`
}

// DeliveredOrders returns a partner's completed orders.
func (c *Client) DeliveredOrders(ctx context.Context, partnerID string) (*DeliveredOrdersResponse, error) {
	q := url.Values{"partnerId": {partnerID}}
	var out DeliveredOrdersResponse
	if err := c.do(ctx, http.MethodGet, "/delivery/delivered-orders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrderStatus moves an order through the delivery pipeline.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status orders.DeliveryStatus, partnerID string) error {
	body := map[string]any{
		"orderId":   orderID,
		"partnerId": partnerID,
		"status":    status,
	}
	return c.do(ctx, http.MethodPatch, "/delivery/update-order-status", nil, body, nil)
}

// SearchCustomers searches the admin scope's customer list.
func (c *Client) SearchCustomers(ctx context.Context, adminUserID, query string) ([]customers.Customer, error) {
	q := url.Values{"userId": {adminUserID}, "q": {query}}
	var out struct {
		Customers []customers.Customer `json:"customers"`
	}
	if err := c.do(ctx, http.MethodGet, "/delivery/search-customers", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

// CustomerDetails fetches one customer record.
func (c *Client) CustomerDetails(ctx context.Context, customerID string) (*customers.Customer, error) {
	q := url.Values{"customerId": {customerID}}
	var out customers.Customer
	if err := c.do(ctx, http.MethodGet, "/delivery/customer-details", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSearchHistory records that a partner looked a customer up.
func (c *Client) SaveSearchHistory(ctx context.Context, partnerID, customerID string) error {
	body := map[string]string{"partnerId": partnerID, "customerId": customerID}
	return c.do(ctx, http.MethodPost, "/delivery/search-history", nil, body, nil)
}

// SearchHistory returns a partner's recent customer lookups.
func (c *Client) SearchHistory(ctx context.Context, partnerID string) ([]customers.SearchHistory, error) {
	q := url.Values{"partnerId": {partnerID}}
	var out []customers.SearchHistory
	if err := c.do(ctx, http.MethodGet, "/delivery/search-history", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStickyNote logs an ad-hoc order against the admin scope.
func (c *Client) CreateStickyNote(ctx context.Context, partnerID, adminUserID string, note orders.StickyNote) error {
	body := map[string]any{
		"partnerId":    partnerID,
		"userId":       adminUserID,
		"customerName": note.CustomerName,
		"items":        note.Items,
		"notes":        note.Notes,
	}
	return c.do(ctx, http.MethodPost, "/delivery/sticky-notes", nil, body, nil)
}

// SearchProducts searches the admin scope's product catalogue.
func (c *Client) SearchProducts(ctx context.Context, adminUserID, query string) ([]products.Product, error) {
	q := url.Values{"userId": {adminUserID}, "q": {query}}
	var out struct {
		Products []products.Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/delivery/search-products", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// PushLocation reports a partner's current position.
func (c *Client) PushLocation(ctx context.Context, partnerID string, lat, lng float64) error {
	body := map[string]any{
		"partnerId": partnerID,
		"latitude":  lat,
		"longitude": lng,
	}
	return c.do(ctx, http.MethodPost, "/delivery/update-location", nil, body, nil)
}
