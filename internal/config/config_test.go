package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.FreeShippingThreshold != 50.0 {
		t.Errorf("expected free shipping threshold 50.0, got %v", cfg.FreeShippingThreshold)
	}
	if cfg.FlatShippingRate != 9.95 {
		t.Errorf("expected flat shipping 9.95, got %v", cfg.FlatShippingRate)
	}
	if cfg.DisplayTaxRate != 0.10 {
		t.Errorf("expected display tax rate 0.10, got %v", cfg.DisplayTaxRate)
	}
	if cfg.AvailabilityWarmInterval != 120*time.Second {
		t.Errorf("expected 120s warm interval, got %v", cfg.AvailabilityWarmInterval)
	}
	if cfg.LeaderboardPollInterval != 30*time.Second {
		t.Errorf("expected 30s leaderboard poll, got %v", cfg.LeaderboardPollInterval)
	}
	if cfg.AllowFakeCheckout {
		t.Error("fake checkout must be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_DEMO_AVAILABILITY", "true")
	t.Setenv("AVAILABILITY_WARM_INTERVAL", "45s")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "75.5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.UseDemoAvailability {
		t.Error("expected demo availability enabled")
	}
	if cfg.AvailabilityWarmInterval != 45*time.Second {
		t.Errorf("expected 45s warm interval, got %v", cfg.AvailabilityWarmInterval)
	}
	if cfg.FreeShippingThreshold != 75.5 {
		t.Errorf("expected threshold 75.5, got %v", cfg.FreeShippingThreshold)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("USE_DEMO_AVAILABILITY", "not-a-bool")
	t.Setenv("AVAILABILITY_WARM_INTERVAL", "soon")
	t.Setenv("DISPLAY_TAX_RATE", "ten percent")

	cfg := Load()

	if cfg.UseDemoAvailability {
		t.Error("invalid bool should fall back to default false")
	}
	if cfg.AvailabilityWarmInterval != 120*time.Second {
		t.Errorf("invalid duration should fall back to 120s, got %v", cfg.AvailabilityWarmInterval)
	}
	if cfg.DisplayTaxRate != 0.10 {
		t.Errorf("invalid float should fall back to 0.10, got %v", cfg.DisplayTaxRate)
	}
}
