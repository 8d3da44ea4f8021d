package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Phorest clinic-management integration
	PhorestBaseURL    string
	PhorestBusinessID string
	PhorestBranchID   string
	PhorestUsername   string
	PhorestAPIKey     string

	// Availability behaviour
	UseDemoAvailability      bool
	AvailabilityWarmInterval time.Duration
	// AvailabilityWarmServices is a comma-separated list of service ids the
	// cache warmer keeps fresh.
	AvailabilityWarmServices string
	LeaderboardPollInterval  time.Duration

	// Stripe checkout
	StripeSecretKey   string
	StripeSuccessURL  string
	StripeCancelURL   string
	AllowFakeCheckout bool

	// Cart presentation totals
	FreeShippingThreshold float64
	FlatShippingRate      float64
	DisplayTaxRate        float64

	UserJWTSecret string

	// SendGrid email configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		PhorestBaseURL:    getEnv("PHOREST_BASE_URL", "https://platform-us.phorest.com/third-party-api-server/api"),
		PhorestBusinessID: getEnv("PHOREST_BUSINESS_ID", ""),
		PhorestBranchID:   getEnv("PHOREST_BRANCH_ID", ""),
		PhorestUsername:   getEnv("PHOREST_USERNAME", ""),
		PhorestAPIKey:     getEnv("PHOREST_API_KEY", ""),

		UseDemoAvailability:      getEnvAsBool("USE_DEMO_AVAILABILITY", false),
		AvailabilityWarmInterval: getEnvAsDuration("AVAILABILITY_WARM_INTERVAL", 120*time.Second),
		AvailabilityWarmServices: getEnv("AVAILABILITY_WARM_SERVICES", ""),
		LeaderboardPollInterval:  getEnvAsDuration("LEADERBOARD_POLL_INTERVAL", 30*time.Second),

		StripeSecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
		StripeSuccessURL:  getEnv("STRIPE_SUCCESS_URL", ""),
		StripeCancelURL:   getEnv("STRIPE_CANCEL_URL", ""),
		AllowFakeCheckout: getEnvAsBool("ALLOW_FAKE_CHECKOUT", false),

		FreeShippingThreshold: getEnvAsFloat("FREE_SHIPPING_THRESHOLD", 50.0),
		FlatShippingRate:      getEnvAsFloat("FLAT_SHIPPING_RATE", 9.95),
		DisplayTaxRate:        getEnvAsFloat("DISPLAY_TAX_RATE", 0.10),

		UserJWTSecret: getEnv("USER_JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Skin Societé"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
