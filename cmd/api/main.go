package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skinsociete/platform/internal/api/router"
	"github.com/skinsociete/platform/internal/app/bootstrap"
	"github.com/skinsociete/platform/internal/availability"
	"github.com/skinsociete/platform/internal/booking"
	"github.com/skinsociete/platform/internal/cart"
	"github.com/skinsociete/platform/internal/catalog"
	appconfig "github.com/skinsociete/platform/internal/config"
	"github.com/skinsociete/platform/internal/feed"
	"github.com/skinsociete/platform/internal/intake"
	"github.com/skinsociete/platform/internal/loyalty"
	"github.com/skinsociete/platform/internal/notify"
	"github.com/skinsociete/platform/internal/observability/metrics"
	"github.com/skinsociete/platform/internal/payments"
	"github.com/skinsociete/platform/internal/phorest"
	"github.com/skinsociete/platform/pkg/logging"
)

func main() {
	// Load configuration (.env is optional, for local development)
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting skinsociete platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Shared backends
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	dbPool, err := bootstrap.BuildDBPool(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database pool", "error", err)
		os.Exit(1)
	}
	if dbPool != nil {
		defer dbPool.Close()
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Clinic platform client and availability sources
	phorestClient := phorest.NewClient(phorest.Config{
		BaseURL:    cfg.PhorestBaseURL,
		BusinessID: cfg.PhorestBusinessID,
		BranchID:   cfg.PhorestBranchID,
		Username:   cfg.PhorestUsername,
		APIKey:     cfg.PhorestAPIKey,
	}, logger)

	generator := availability.NewGenerator()
	var slotSource availability.SlotSource = generator
	if !cfg.UseDemoAvailability {
		slotSource = availability.NewGateway(phorestClient, generator, bookingMetrics, logger)
	}
	availabilityCache := availability.NewCache(cfg.AvailabilityWarmInterval)
	availabilityHandler := availability.NewHandler(slotSource, availabilityCache, cfg.PhorestBranchID, logger)

	warmServices := splitCSV(cfg.AvailabilityWarmServices)
	var warmer *availability.Warmer
	if len(warmServices) > 0 {
		warmer = availability.NewWarmer(slotSource, availabilityCache, warmServices, cfg.PhorestBranchID, cfg.AvailabilityWarmInterval, logger)
	}

	// Loyalty and feed need Postgres; leaderboard needs Redis.
	var progressRepo loyalty.ProgressRepository
	var feedRepo feed.Repository
	if dbPool != nil {
		progressRepo = loyalty.NewPostgresRepository(dbPool)
		feedRepo = feed.NewPostgresRepository(dbPool)
	}
	var leaderboard *loyalty.Leaderboard
	var refresher *loyalty.Refresher
	if redisClient != nil {
		leaderboard = loyalty.NewLeaderboard(redisClient)
		refresher = loyalty.NewRefresher(leaderboard, cfg.LeaderboardPollInterval, logger)
	}

	// Booking pipeline with confirmation listeners
	emailSender := bootstrap.BuildEmailSender(cfg, logger)
	var listeners []booking.ConfirmListener
	if progressRepo != nil && leaderboard != nil {
		listeners = append(listeners, loyalty.NewBookingListener(progressRepo, leaderboard, logger))
	}
	listeners = append(listeners, notify.NewBookingListener(emailSender, logger))

	bookingStore := booking.NewStore()
	bookingGateway := booking.NewGateway(phorestClient, bookingMetrics, logger)
	bookingHandler := booking.NewHandler(bookingStore, bookingGateway, logger, listeners...)

	// Retail: catalog, cart, checkout
	catalogRepo := catalog.NewInMemoryRepository(nil)
	catalogHandler := catalog.NewHandler(catalogRepo, logger)

	pricingRules := cart.PricingRules{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingRate:      cfg.FlatShippingRate,
		DisplayTaxRate:        cfg.DisplayTaxRate,
	}
	cartStore := cart.NewStore()
	cartHandler := cart.NewHandler(cartStore, catalogRepo, pricingRules, logger)

	checkoutService, provider, err := bootstrap.BuildCheckoutService(cfg, logger)
	if err != nil {
		logger.Error("failed to configure checkout", "error", err)
		os.Exit(1)
	}
	checkoutHandler := payments.NewHandler(checkoutService, provider, cartStore, pricingRules, bookingMetrics, logger)

	// Intake drafts autosave to Redis; submission upserts the Phorest client.
	var intakeHandler *intake.Handler
	if redisClient != nil {
		intakeHandler = intake.NewHandler(intake.NewAutosaveStore(redisClient), phorestClient, logger)
	} else {
		logger.Warn("redis not available; intake autosave is disabled")
	}

	var loyaltyHandler *loyalty.Handler
	if progressRepo != nil {
		loyaltyHandler = loyalty.NewHandler(progressRepo, leaderboard, refresher, logger)
	}
	var feedHandler *feed.Handler
	if feedRepo != nil {
		feedHandler = feed.NewHandler(feedRepo, logger)
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		CatalogHandler:      catalogHandler,
		AvailabilityHandler: availabilityHandler,
		BookingHandler:      bookingHandler,
		CartHandler:         cartHandler,
		CheckoutHandler:     checkoutHandler,
		IntakeHandler:       intakeHandler,
		LoyaltyHandler:      loyaltyHandler,
		FeedHandler:         feedHandler,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		UserJWTSecret:       cfg.UserJWTSecret,
		CORSAllowedOrigins:  splitCSV(cfg.CORSAllowedOrigins),
	}
	r := router.New(routerCfg)

	// Background loops stop when ctx is cancelled during shutdown.
	if warmer != nil {
		go warmer.Run(ctx)
	}
	if refresher != nil {
		go refresher.Run(ctx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
