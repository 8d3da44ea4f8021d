package catalog

import (
	"context"
	"testing"
)

func testProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Gentle Cleanser", Brand: "Skinstitut", Description: "gel cleanser", Category: "cleanser", Price: 39, Featured: true},
		{ID: "p2", Name: "Retinol Serum", Brand: "Skinstitut", Description: "overnight serum", Category: "serum", Price: 49, Featured: false},
		{ID: "p3", Name: "Moisture Defence", Brand: "ASAP", Description: "SPF moisturiser", Category: "sunscreen", Price: 55, Featured: true},
	}
}

func TestListNoFilter(t *testing.T) {
	repo := NewInMemoryRepository(testProducts())

	products, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
}

func TestListByCategory(t *testing.T) {
	repo := NewInMemoryRepository(testProducts())

	products, err := repo.List(context.Background(), Filter{Category: "Serum"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p2" {
		t.Fatalf("expected only p2 for category serum, got %+v", products)
	}
}

func TestListBySearch(t *testing.T) {
	repo := NewInMemoryRepository(testProducts())

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"matches name", "retinol", 1},
		{"matches brand", "asap", 1},
		{"matches description", "cleanser", 1},
		{"case insensitive", "MOISTURE", 1},
		{"no match", "toner", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.List(context.Background(), Filter{Search: tt.search})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(products) != tt.want {
				t.Fatalf("expected %d products for %q, got %d", tt.want, tt.search, len(products))
			}
		})
	}
}

func TestListFeatured(t *testing.T) {
	repo := NewInMemoryRepository(testProducts())

	featured := true
	products, err := repo.List(context.Background(), Filter{Featured: &featured})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 featured products, got %d", len(products))
	}
}

func TestGetByID(t *testing.T) {
	repo := NewInMemoryRepository(testProducts())

	p, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Gentle Cleanser" {
		t.Fatalf("expected Gentle Cleanser, got %s", p.Name)
	}

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDefaultSeedLoads(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	products, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected default seed to be non-empty")
	}
}
