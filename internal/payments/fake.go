package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skinsociete/platform/pkg/logging"
)

// FakeCheckoutService is a dev/demo checkout provider that generates an
// internal URL and treats every session as instantly paid.
//
// This MUST be gated by configuration (ALLOW_FAKE_CHECKOUT) and should never
// be enabled in production.
type FakeCheckoutService struct {
	publicBaseURL string
	logger        *logging.Logger

	mu       sync.Mutex
	sessions map[string]*SessionStatus
}

func NewFakeCheckoutService(publicBaseURL string, logger *logging.Logger) *FakeCheckoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FakeCheckoutService{
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		logger:        logger,
		sessions:      make(map[string]*SessionStatus),
	}
}

func (s *FakeCheckoutService) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResponse, error) {
	_ = ctx
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("payments: checkout requires at least one line item")
	}
	if s.publicBaseURL == "" {
		return nil, fmt.Errorf("payments: fake checkout requires PUBLIC_BASE_URL")
	}
	if !isValidBaseURL(s.publicBaseURL) {
		return nil, fmt.Errorf("payments: fake checkout PUBLIC_BASE_URL must be an absolute http(s) URL")
	}

	var total int64
	for _, item := range params.Items {
		quantity := int64(item.Quantity)
		if quantity < 1 {
			quantity = 1
		}
		total += item.AmountCents * quantity
	}

	id := "cs_fake_" + uuid.New().String()[:8]
	s.mu.Lock()
	s.sessions[id] = &SessionStatus{
		ID:            id,
		Status:        "complete",
		PaymentStatus: "paid",
		CustomerEmail: params.Email,
		AmountCents:   total,
	}
	s.mu.Unlock()

	s.logger.Info("fake checkout session created", "provider_id", id, "amount_cents", total)
	return &CheckoutResponse{
		URL:        fmt.Sprintf("%s/checkout/fake/%s", s.publicBaseURL, id),
		ProviderID: id,
	}, nil
}

func (s *FakeCheckoutService) GetSession(ctx context.Context, providerID string) (*SessionStatus, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.sessions[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, providerID)
	}
	return status, nil
}

func isValidBaseURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
