package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/catalog"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

// Handler exposes the session cart over HTTP. Product details are resolved
// server side so a client can never invent a price.
type Handler struct {
	store    *Store
	products catalog.Repository
	rules    PricingRules
	logger   *logging.Logger
}

func NewHandler(store *Store, products catalog.Repository, rules PricingRules, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, products: products, rules: rules, logger: logger}
}

// Routes mounts the cart endpoints on a chi subrouter.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetCart)
	r.Post("/items", h.AddItem)
	r.Put("/items/{productID}", h.UpdateItem)
	r.Delete("/items/{productID}", h.RemoveItem)
	return r
}

// CartResponse pairs the cart contents with the presentation totals.
type CartResponse struct {
	Cart      *Cart  `json:"cart"`
	Totals    Totals `json:"totals"`
	ItemCount int    `json:"itemCount"`
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}
	h.respond(w, h.store.Get(sessionID))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddItem handles POST /api/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("cart: resolving product", "error", err, "product_id", req.ProductID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	c := h.store.Update(sessionID, func(c *Cart) {
		c.AddItem(Item{
			ProductID: product.ID,
			Name:      product.Name,
			Brand:     product.Brand,
			Price:     product.Price,
			Quantity:  req.Quantity,
			Image:     product.Image,
		})
	})
	h.respond(w, c)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{productID}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := chi.URLParam(r, "productID")
	c := h.store.Update(sessionID, func(c *Cart) {
		c.UpdateQuantity(productID, req.Quantity)
	})
	h.respond(w, c)
}

// RemoveItem handles DELETE /api/cart/items/{productID}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "missing session")
		return
	}

	productID := chi.URLParam(r, "productID")
	c := h.store.Update(sessionID, func(c *Cart) {
		c.RemoveItem(productID)
	})
	h.respond(w, c)
}

func (h *Handler) respond(w http.ResponseWriter, c *Cart) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(CartResponse{
		Cart:      c,
		Totals:    h.rules.Totals(c),
		ItemCount: c.TotalItems(),
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
