package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/catalog"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := NewHandler(
		NewStore(),
		catalog.NewInMemoryRepository(nil),
		PricingRules{FreeShippingThreshold: 50, FlatShippingRate: 9.95, DisplayTaxRate: 0.10},
		logging.Default(),
	)
	r := chi.NewRouter()
	r.Use(session.Middleware)
	r.Mount("/api/cart", handler.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doCart(t *testing.T, srv *httptest.Server, method, path, sessionID string, body any) (*http.Response, CartResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set(session.HeaderName, sessionID)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var out CartResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return resp, out
}

func TestGetCartStartsEmpty(t *testing.T) {
	srv := newTestServer(t)

	resp, out := doCart(t, srv, http.MethodGet, "/api/cart", "session-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.ItemCount != 0 {
		t.Errorf("expected empty cart, got %d items", out.ItemCount)
	}
	if out.Cart.Items == nil {
		t.Error("items should serialize as an empty array, not null")
	}
}

func TestAddItemResolvesProductServerSide(t *testing.T) {
	srv := newTestServer(t)

	resp, out := doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-001", "quantity": 2, "price": 0.01})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", out.ItemCount)
	}
	if out.Cart.Items[0].Price <= 0.01 {
		t.Errorf("price must come from the catalog, got %v", out.Cart.Items[0].Price)
	}
	if out.Cart.Items[0].Name == "" {
		t.Error("expected product name filled from the catalog")
	}
}

func TestAddUnknownProduct(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-missing", "quantity": 1})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateItemClampsQuantity(t *testing.T) {
	srv := newTestServer(t)

	doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-001", "quantity": 3})

	resp, out := doCart(t, srv, http.MethodPut, "/api/cart/items/prod-001", "session-1",
		map[string]any{"quantity": 0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.Cart.Items[0].Quantity != 1 {
		t.Errorf("expected quantity clamped to 1, got %d", out.Cart.Items[0].Quantity)
	}
}

func TestRemoveItemEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-001", "quantity": 1})

	resp, out := doCart(t, srv, http.MethodDelete, "/api/cart/items/prod-001", "session-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.ItemCount != 0 {
		t.Errorf("expected empty cart after removal, got %d items", out.ItemCount)
	}
}

func TestCartsAreSessionScoped(t *testing.T) {
	srv := newTestServer(t)

	doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-001", "quantity": 1})

	_, out := doCart(t, srv, http.MethodGet, "/api/cart", "session-2", nil)
	if out.ItemCount != 0 {
		t.Errorf("expected empty cart for a different session, got %d items", out.ItemCount)
	}
}

func TestTotalsIncludeShippingBelowThreshold(t *testing.T) {
	srv := newTestServer(t)

	_, out := doCart(t, srv, http.MethodPost, "/api/cart/items", "session-1",
		map[string]any{"productId": "prod-001", "quantity": 1})

	if out.Totals.Subtotal >= 50 {
		t.Skipf("seeded product price %v crosses the free shipping line", out.Totals.Subtotal)
	}
	if out.Totals.Shipping != 9.95 {
		t.Errorf("expected flat shipping 9.95, got %v", out.Totals.Shipping)
	}
}
