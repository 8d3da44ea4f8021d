package payments

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/cart"
	"github.com/skinsociete/platform/internal/observability/metrics"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

// Handler turns the session cart into a hosted checkout session and reports
// payment outcomes back to the storefront.
type Handler struct {
	checkout CheckoutService
	provider string
	carts    *cart.Store
	rules    cart.PricingRules
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewHandler(checkout CheckoutService, provider string, carts *cart.Store, rules cart.PricingRules, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{checkout: checkout, provider: provider, carts: carts, rules: rules, metrics: m, logger: logger}
}

// Routes mounts the checkout endpoints on a chi subrouter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateCheckout)
	r.Get("/session", h.GetSession)
	return r
}

type checkoutRequest struct {
	Email string `json:"email"`
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// CreateCheckout handles POST /api/checkout. The line items always come from
// the server-side cart, never from the request body.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}

	var req checkoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	c := h.carts.Get(sessionID)
	if len(c.Items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	items := make([]LineItem, 0, len(c.Items)+1)
	for _, line := range c.Items {
		items = append(items, LineItem{
			Name:        line.Name,
			Description: line.Brand,
			AmountCents: toCents(line.Price),
			Quantity:    line.Quantity,
		})
	}
	totals := h.rules.Totals(c)
	if totals.Shipping > 0 {
		items = append(items, LineItem{
			Name:        "Shipping",
			AmountCents: toCents(totals.Shipping),
			Quantity:    1,
		})
	}

	resp, err := h.checkout.CreateCheckoutSession(r.Context(), CheckoutParams{
		SessionID: sessionID,
		Email:     req.Email,
		Items:     items,
	})
	if err != nil {
		h.metrics.ObserveCheckout(h.provider, "error")
		h.logger.Error("payments: creating checkout session", "error", err, "session_id", sessionID)
		writeError(w, http.StatusBadGateway, "checkout is temporarily unavailable")
		return
	}

	h.metrics.ObserveCheckout(h.provider, "created")
	writeJSON(w, http.StatusOK, checkoutResponse{URL: resp.URL, SessionID: resp.ProviderID})
}

type sessionStatusResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	AmountCents   int64  `json:"amountCents"`
	Paid          bool   `json:"paid"`
}

// GetSession handles GET /api/checkout/session?session_id=. A paid session
// clears the cart so a refreshed success page stays consistent.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	providerID := r.URL.Query().Get("session_id")
	if providerID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	status, err := h.checkout.GetSession(r.Context(), providerID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "checkout session not found")
			return
		}
		h.logger.Error("payments: looking up checkout session", "error", err, "provider_id", providerID)
		writeError(w, http.StatusBadGateway, "could not verify payment")
		return
	}

	if status.Paid() {
		if sessionID, ok := session.IDFromContext(r.Context()); ok {
			h.carts.Clear(sessionID)
		}
		h.metrics.ObserveCheckout(h.provider, "paid")
	}

	writeJSON(w, http.StatusOK, sessionStatusResponse{
		ID:            status.ID,
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		CustomerEmail: status.CustomerEmail,
		AmountCents:   status.AmountCents,
		Paid:          status.Paid(),
	})
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
