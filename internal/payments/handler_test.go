package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/skinsociete/platform/internal/cart"
	"github.com/skinsociete/platform/internal/session"
)

type stubCheckout struct {
	created []CheckoutParams
	failNext bool
	sessions map[string]*SessionStatus
}

func (s *stubCheckout) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResponse, error) {
	if s.failNext {
		return nil, fmt.Errorf("payments: provider down")
	}
	s.created = append(s.created, params)
	return &CheckoutResponse{URL: "https://checkout.example/cs_1", ProviderID: "cs_1"}, nil
}

func (s *stubCheckout) GetSession(ctx context.Context, providerID string) (*SessionStatus, error) {
	if s.failNext {
		return nil, fmt.Errorf("payments: provider down")
	}
	status, ok := s.sessions[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, providerID)
	}
	return status, nil
}

func newHandlerTest(t *testing.T, stub *stubCheckout) (*httptest.Server, *cart.Store) {
	t.Helper()
	carts := cart.NewStore()
	rules := cart.PricingRules{FreeShippingThreshold: 50, FlatShippingRate: 9.95, DisplayTaxRate: 0.10}
	h := NewHandler(stub, "stripe", carts, rules, nil, nil)

	r := chi.NewRouter()
	r.Use(session.Middleware)
	r.Mount("/api/checkout", h.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, carts
}

func postCheckout(t *testing.T, srv *httptest.Server, sessionID string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/checkout", &buf)
	req.Header.Set(session.HeaderName, sessionID)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateCheckoutFromCart(t *testing.T) {
	stub := &stubCheckout{}
	srv, carts := newHandlerTest(t, stub)

	carts.Update("session-1", func(c *cart.Cart) {
		c.AddItem(cart.Item{ProductID: "prod-001", Name: "Serum", Price: 20.00, Quantity: 1})
	})

	resp := postCheckout(t, srv, "session-1", map[string]string{"email": "jess@example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if out.URL == "" || out.SessionID != "cs_1" {
		t.Errorf("unexpected response: %+v", out)
	}

	if len(stub.created) != 1 {
		t.Fatalf("expected one provider call, got %d", len(stub.created))
	}
	params := stub.created[0]
	if params.Email != "jess@example.com" {
		t.Errorf("email not forwarded: %s", params.Email)
	}
	// 20.00 is under the free shipping threshold, so a shipping line is added.
	if len(params.Items) != 2 {
		t.Fatalf("expected product + shipping lines, got %d", len(params.Items))
	}
	if params.Items[0].AmountCents != 2000 {
		t.Errorf("expected 2000 cents, got %d", params.Items[0].AmountCents)
	}
	if params.Items[1].Name != "Shipping" || params.Items[1].AmountCents != 995 {
		t.Errorf("unexpected shipping line: %+v", params.Items[1])
	}
}

func TestCheckoutSkipsShippingOverThreshold(t *testing.T) {
	stub := &stubCheckout{}
	srv, carts := newHandlerTest(t, stub)

	carts.Update("session-1", func(c *cart.Cart) {
		c.AddItem(cart.Item{ProductID: "prod-001", Name: "Serum", Price: 60.00, Quantity: 1})
	})

	resp := postCheckout(t, srv, "session-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(stub.created[0].Items) != 1 {
		t.Errorf("expected no shipping line, got %d items", len(stub.created[0].Items))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	stub := &stubCheckout{}
	srv, _ := newHandlerTest(t, stub)

	resp := postCheckout(t, srv, "session-1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckoutProviderFailure(t *testing.T) {
	stub := &stubCheckout{failNext: true}
	srv, carts := newHandlerTest(t, stub)

	carts.Update("session-1", func(c *cart.Cart) {
		c.AddItem(cart.Item{ProductID: "prod-001", Name: "Serum", Price: 20.00, Quantity: 1})
	})

	resp := postCheckout(t, srv, "session-1", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGetSessionClearsCartWhenPaid(t *testing.T) {
	stub := &stubCheckout{sessions: map[string]*SessionStatus{
		"cs_1": {ID: "cs_1", Status: "complete", PaymentStatus: "paid", AmountCents: 2995},
	}}
	srv, carts := newHandlerTest(t, stub)

	carts.Update("session-1", func(c *cart.Cart) {
		c.AddItem(cart.Item{ProductID: "prod-001", Name: "Serum", Price: 20.00, Quantity: 1})
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/checkout/session?session_id=cs_1", nil)
	req.Header.Set(session.HeaderName, "session-1")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out sessionStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !out.Paid {
		t.Error("expected paid=true")
	}
	if got := carts.Get("session-1"); len(got.Items) != 0 {
		t.Errorf("cart should be cleared after payment, has %d items", len(got.Items))
	}
}

func TestGetSessionUnknownIDIs404(t *testing.T) {
	stub := &stubCheckout{sessions: map[string]*SessionStatus{}}
	srv, _ := newHandlerTest(t, stub)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/checkout/session?session_id=cs_missing", nil)
	req.Header.Set(session.HeaderName, "session-1")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestGetSessionProviderFailureIs502(t *testing.T) {
	stub := &stubCheckout{failNext: true}
	srv, _ := newHandlerTest(t, stub)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/checkout/session?session_id=cs_1", nil)
	req.Header.Set(session.HeaderName, "session-1")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 for provider failure, got %d", resp.StatusCode)
	}
}

func TestGetSessionRequiresQueryParam(t *testing.T) {
	stub := &stubCheckout{}
	srv, _ := newHandlerTest(t, stub)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/checkout/session", nil)
	req.Header.Set(session.HeaderName, "session-1")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
