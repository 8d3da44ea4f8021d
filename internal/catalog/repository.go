package catalog

import (
	"context"
	"strings"
	"sync"
)

// Repository defines the interface for catalog lookups
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

// InMemoryRepository serves the seeded product catalog from memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
}

// NewInMemoryRepository creates a repository pre-loaded with the given products.
// Passing nil loads the default storefront seed.
func NewInMemoryRepository(products []Product) *InMemoryRepository {
	if products == nil {
		products = defaultProducts()
	}
	return &InMemoryRepository{products: products}
}

// List returns products matching the filter. Search is a case-insensitive
// substring match across name, brand and description; category is exact.
func (r *InMemoryRepository) List(ctx context.Context, filter Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GetByID returns a single product.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func matchesSearch(p Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Brand), search) ||
		strings.Contains(strings.ToLower(p.Description), search)
}

func defaultProducts() []Product {
	return []Product{
		{ID: "prod-001", Name: "Gentle Cleanser", Brand: "Skinstitut", Description: "Soap-free gel cleanser for daily use on all skin types", Price: 39.00, Category: "cleanser", Image: "/images/products/gentle-cleanser.jpg", Featured: true, Rating: 4.7},
		{ID: "prod-002", Name: "Retinol Serum", Brand: "Skinstitut", Description: "Encapsulated retinol to refine texture and tone overnight", Price: 49.00, Category: "serum", Image: "/images/products/retinol-serum.jpg", Featured: true, Rating: 4.8},
		{ID: "prod-003", Name: "Hyaluronic Hydration Booster", Brand: "Cosmedix", Description: "Lightweight hyaluronic serum for deep hydration", Price: 65.00, Category: "serum", Image: "/images/products/hyaluronic-booster.jpg", Featured: false, Rating: 4.6},
		{ID: "prod-004", Name: "Daily Moisture Defence SPF50+", Brand: "ASAP", Description: "Broad-spectrum moisturiser with invisible zinc", Price: 55.00, Category: "sunscreen", Image: "/images/products/moisture-defence.jpg", Featured: true, Rating: 4.9},
		{ID: "prod-005", Name: "Vitamin C Brightening Serum", Brand: "ASAP", Description: "Stabilised vitamin C to brighten and even skin tone", Price: 89.00, Category: "serum", Image: "/images/products/vitamin-c.jpg", Featured: false, Rating: 4.5},
		{ID: "prod-006", Name: "Enzymatic Micro Peel", Brand: "Cosmedix", Description: "Weekly fruit-enzyme exfoliating treatment", Price: 72.00, Category: "treatment", Image: "/images/products/micro-peel.jpg", Featured: false, Rating: 4.4},
		{ID: "prod-007", Name: "Ceramide Repair Balm", Brand: "Dermalogica", Description: "Barrier repair balm for compromised or post-treatment skin", Price: 94.00, Category: "moisturiser", Image: "/images/products/ceramide-balm.jpg", Featured: false, Rating: 4.7},
		{ID: "prod-008", Name: "Niacinamide 10%", Brand: "Skinstitut", Description: "Oil-balancing niacinamide serum for congested skin", Price: 45.00, Category: "serum", Image: "/images/products/niacinamide.jpg", Featured: true, Rating: 4.6},
	}
}
