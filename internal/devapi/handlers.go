package devapi

import (
	"math/rand"
	"net/http"

	"github.com/go-chi/render"
	ierrors "github.com/iceinventory/partner-core/internal/errors"
	"github.com/iceinventory/partner-core/orders"
	"github.com/iceinventory/partner-core/partner"
	"github.com/pkg/errors"
)

const devOTP = "000000" // every pending login accepts this code

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		AdminEmail string `json:"adminEmail"`
		Password   string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" || req.AdminEmail == "" {
		s.renderError(w, r, http.StatusBadRequest, ierrors.ErrInvalidInput)
		return
	}
	s.store.addPartner(partner.DeliveryPartner{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		AdminEmail: req.AdminEmail,
		Status:     partner.StatusPending,
	})
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, messageResponse{Message: "registration received, awaiting approval"})
}

func (s *Server) loginOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.partnerByEmail(req.Email); err != nil {
		s.renderError(w, r, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	s.store.mu.Lock()
	s.store.otps[req.Email] = devOTP
	s.store.mu.Unlock()
	render.JSON(w, r, messageResponse{Message: "otp sent"})
}

func (s *Server) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	s.store.mu.Lock()
	pending, ok := s.store.otps[req.Email]
	delete(s.store.otps, req.Email)
	s.store.mu.Unlock()
	if !ok || pending != req.OTP {
		s.renderError(w, r, http.StatusUnauthorized, errors.New("invalid otp"))
		return
	}
	p, err := s.store.partnerByEmail(req.Email)
	if err != nil {
		s.renderError(w, r, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	render.JSON(w, r, map[string]any{
		"partner": p,
		"userId":  p.CreatedByUser,
		"message": "login successful",
	})
}

func (s *Server) resendOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	s.store.mu.Lock()
	s.store.otps[req.Email] = devOTP
	s.store.mu.Unlock()
	render.JSON(w, r, messageResponse{Message: "otp resent"})
}

func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	partnerID := r.URL.Query().Get("partnerId")
	p, err := s.store.getPartner(partnerID)
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, errors.New("partner not found"))
		return
	}
	if loc, ok := s.store.lastLocation(partnerID); ok {
		p.LastLocation = &loc
	}
	render.JSON(w, r, p)
}

func (s *Server) partnersHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("adminEmail")
	if email == "" {
		s.renderError(w, r, http.StatusBadRequest, ierrors.ErrInvalidInput)
		return
	}
	render.JSON(w, r, map[string]any{"partners": s.store.partnersByAdminEmail(email)})
}

func (s *Server) ordersHandler(w http.ResponseWriter, r *http.Request) {
	adminUserID := r.URL.Query().Get("userId")
	if adminUserID == "" {
		s.renderError(w, r, http.StatusBadRequest, ierrors.ErrInvalidInput)
		return
	}
	out := s.store.ordersForScope(adminUserID, r.URL.Query().Get("partnerId"))
	if out == nil {
		out = []orders.Order{}
	}
	render.JSON(w, r, out)
}

func (s *Server) deliveredOrdersHandler(w http.ResponseWriter, r *http.Request) {
	partnerID := r.URL.Query().Get("partnerId")
	groups := s.store.deliveredForPartner(partnerID)
	total := len(groups.Today) + len(groups.Yesterday) + len(groups.ThisWeek) + len(groups.Older)
	render.JSON(w, r, map[string]any{"total": total, "groups": groups})
}

func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string                `json:"orderId"`
		PartnerID string                `json:"partnerId"`
		Status    orders.DeliveryStatus `json:"status"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	switch req.Status {
	case orders.StatusPending, orders.StatusOnTheWay, orders.StatusDelivered:
	default:
		s.renderError(w, r, http.StatusBadRequest, errors.New("unknown delivery status"))
		return
	}
	if err := s.store.updateOrderStatus(req.OrderID, req.Status, req.PartnerID); err != nil {
		s.renderError(w, r, http.StatusNotFound, errors.New("order not found"))
		return
	}
	render.JSON(w, r, messageResponse{Message: "order updated"})
}

func (s *Server) searchCustomersHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"customers": s.store.searchCustomers(r.URL.Query().Get("q"))})
}

func (s *Server) customerDetailsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.getCustomer(r.URL.Query().Get("customerId"))
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, errors.New("customer not found"))
		return
	}
	render.JSON(w, r, c)
}

func (s *Server) saveSearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerID  string `json:"partnerId"`
		CustomerID string `json:"customerId"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.store.saveHistory(req.PartnerID, req.CustomerID); err != nil {
		s.renderError(w, r, http.StatusNotFound, errors.New("customer not found"))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, messageResponse{Message: "saved"})
}

func (s *Server) searchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.store.historyForPartner(r.URL.Query().Get("partnerId")))
}

func (s *Server) stickyNotesHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerID    string                  `json:"partnerId"`
		UserID       string                  `json:"userId"`
		CustomerName string                  `json:"customerName"`
		Items        []orders.StickyNoteItem `json:"items"`
		Notes        string                  `json:"notes"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.CustomerName == "" || len(req.Items) == 0 {
		s.renderError(w, r, http.StatusBadRequest, ierrors.ErrInvalidInput)
		return
	}
	var items []orders.OrderItem
	total := 0.0
	for _, it := range req.Items {
		price := float64(rand.Intn(90) + 10) // fixture pricing
		items = append(items, orders.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
			Total:     price * float64(it.Quantity),
		})
		total += price * float64(it.Quantity)
	}
	s.store.addOrder(orders.Order{
		UserID:            req.UserID,
		CustomerName:      req.CustomerName,
		Items:             items,
		Total:             total,
		DeliveryStatus:    orders.StatusPending,
		DeliveryPartnerID: req.PartnerID,
	})
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, messageResponse{Message: "sticky note created"})
}

func (s *Server) searchProductsHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"products": s.store.searchProducts(r.URL.Query().Get("q"))})
}

func (s *Server) updateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerID string  `json:"partnerId"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.store.recordLocation(req.PartnerID, req.Latitude, req.Longitude); err != nil {
		if errors.Is(err, ierrors.ErrInvalidInput) {
			s.renderError(w, r, http.StatusForbidden, errors.New("partner account terminated"))
			return
		}
		s.renderError(w, r, http.StatusBadRequest, errors.New("unknown partner"))
		return
	}
	render.JSON(w, r, messageResponse{Message: "location updated"})
}
