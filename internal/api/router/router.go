package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skinsociete/platform/internal/availability"
	"github.com/skinsociete/platform/internal/booking"
	"github.com/skinsociete/platform/internal/cart"
	"github.com/skinsociete/platform/internal/catalog"
	"github.com/skinsociete/platform/internal/feed"
	httpmiddleware "github.com/skinsociete/platform/internal/http/middleware"
	"github.com/skinsociete/platform/internal/intake"
	"github.com/skinsociete/platform/internal/loyalty"
	"github.com/skinsociete/platform/internal/payments"
	"github.com/skinsociete/platform/internal/session"
	"github.com/skinsociete/platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	CatalogHandler      *catalog.Handler
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	CartHandler         *cart.Handler
	CheckoutHandler     *payments.Handler
	IntakeHandler       *intake.Handler
	LoyaltyHandler      *loyalty.Handler
	FeedHandler         *feed.Handler
	MetricsHandler      http.Handler
	UserJWTSecret       string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Ops endpoints
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(session.Middleware)

		if cfg.CatalogHandler != nil {
			api.Get("/products", cfg.CatalogHandler.ListProducts)
		}

		if cfg.AvailabilityHandler != nil {
			api.Post("/appointments/availability", cfg.AvailabilityHandler.GetAvailability)
		}
		if cfg.BookingHandler != nil {
			api.Post("/appointments/simple-booking", cfg.BookingHandler.SimpleBooking)
			api.Mount("/booking/wizard", cfg.BookingHandler.Routes())
		}

		if cfg.CartHandler != nil {
			api.Mount("/cart", cfg.CartHandler.Routes())
		}
		if cfg.CheckoutHandler != nil {
			api.Mount("/checkout", cfg.CheckoutHandler.Routes())
		}

		if cfg.IntakeHandler != nil {
			api.Mount("/intake", cfg.IntakeHandler.Routes())
			api.Post("/clients", cfg.IntakeHandler.Submit)
		}

		if cfg.LoyaltyHandler != nil {
			api.Get("/leaderboard", cfg.LoyaltyHandler.GetLeaderboard)
			api.Route("/user/progress", func(user chi.Router) {
				user.Use(httpmiddleware.UserJWT(cfg.UserJWTSecret))
				user.Mount("/", cfg.LoyaltyHandler.ProgressRoutes())
			})
		}

		if cfg.FeedHandler != nil {
			api.Route("/feed", func(f chi.Router) {
				f.Use(httpmiddleware.OptionalUserJWT(cfg.UserJWTSecret))
				f.Use(httpmiddleware.RateLimit(5, 10))
				f.Mount("/", cfg.FeedHandler.Routes())
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
