package bootstrap

import (
	"fmt"
	"strings"

	appconfig "github.com/skinsociete/platform/internal/config"
	"github.com/skinsociete/platform/internal/payments"
	"github.com/skinsociete/platform/pkg/logging"
)

// Checkout provider names as reported in metrics labels.
const (
	ProviderStripe = "stripe"
	ProviderFake   = "fake"
)

// BuildCheckoutService selects the checkout backend from configuration.
// Stripe wins when a secret key is present; otherwise the in-memory fake is
// used if explicitly allowed. The returned string is the provider name.
func BuildCheckoutService(cfg *appconfig.Config, logger *logging.Logger) (payments.CheckoutService, string, error) {
	if cfg == nil {
		return nil, "", fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	if strings.TrimSpace(cfg.StripeSecretKey) != "" {
		svc := payments.NewStripeCheckoutService(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL, logger)
		logger.Info("checkout provider selected", "provider", ProviderStripe)
		return svc, ProviderStripe, nil
	}
	if cfg.AllowFakeCheckout {
		svc := payments.NewFakeCheckoutService(cfg.PublicBaseURL, logger)
		logger.Warn("checkout provider selected", "provider", ProviderFake)
		return svc, ProviderFake, nil
	}
	return nil, "", fmt.Errorf("bootstrap: no checkout provider configured (set STRIPE_SECRET_KEY or ALLOW_FAKE_CHECKOUT)")
}
