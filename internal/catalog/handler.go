package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skinsociete/platform/pkg/logging"
)

// Handler handles HTTP requests for the product catalog
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListProductsResponse is the response for listing products
type ListProductsResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// ListProducts handles GET /api/products?category=&search=&featured=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if featuredStr := r.URL.Query().Get("featured"); featuredStr != "" {
		if featured, err := strconv.ParseBool(featuredStr); err == nil {
			filter.Featured = &featured
		}
	}

	products, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListProductsResponse{
		Products: products,
		Count:    len(products),
	})
}
