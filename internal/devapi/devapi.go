// Package devapi is an in-memory stand-in for the delivery backend, used for
// local development and for exercising the delivery client in tests. It
// speaks the same /delivery/* surface the production API does.
package devapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iceinventory/partner-core/customers"
	"github.com/iceinventory/partner-core/internal/config"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/iceinventory/partner-core/products"
	"github.com/rs/zerolog"
)

// Server serves the development delivery API.
type Server struct {
	store *fixtureStore
	log   zerolog.Logger
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// New creates the dev API server.
func New(options ...ServerOption) *Server {
	s := &Server{
		store: newFixtureStore(),
		log:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Router builds the chi router for the /delivery/* surface.
func (s *Server) Router(cfg config.CorsConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		AllowedMethods: cfg.GetAllowedMethods(),
		AllowedHeaders: cfg.GetAllowedHeaders(),
		MaxAge:         300,
	}))

	r.Route("/delivery", func(dr chi.Router) {
		dr.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		dr.Post("/register", s.registerHandler)
		dr.Post("/login-otp", s.loginOTPHandler)
		dr.Post("/verify-otp", s.verifyOTPHandler)
		dr.Post("/resend-otp", s.resendOTPHandler)

		dr.Get("/profile", s.profileHandler)
		dr.Get("/partners", s.partnersHandler)

		dr.Get("/orders", s.ordersHandler)
		dr.Get("/delivered-orders", s.deliveredOrdersHandler)
		dr.Patch("/update-order-status", s.updateOrderStatusHandler)

		dr.Get("/search-customers", s.searchCustomersHandler)
		dr.Get("/customer-details", s.customerDetailsHandler)
		dr.Post("/search-history", s.saveSearchHistoryHandler)
		dr.Get("/search-history", s.searchHistoryHandler)

		dr.Post("/sticky-notes", s.stickyNotesHandler)
		dr.Get("/search-products", s.searchProductsHandler)

		dr.Post("/update-location", s.updateLocationHandler)
	})

	return r
}

// SeedPartner loads a partner fixture and returns the stored record.
func (s *Server) SeedPartner(p partner.DeliveryPartner) *partner.DeliveryPartner {
	return s.store.addPartner(p)
}

// SeedOrder loads an order fixture.
func (s *Server) SeedOrder(o orders.Order) *orders.Order {
	return s.store.addOrder(o)
}

// SeedCustomer loads a customer fixture.
func (s *Server) SeedCustomer(c customers.Customer) *customers.Customer {
	return s.store.addCustomer(c)
}

// SeedProduct loads a product fixture.
func (s *Server) SeedProduct(p products.Product) *products.Product {
	return s.store.addProduct(p)
}

// LastLocation exposes the most recent recorded position for assertions.
func (s *Server) LastLocation(partnerID string) (partner.LastLocation, bool) {
	return s.store.lastLocation(partnerID)
}
