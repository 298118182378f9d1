package main // Entry point package

import (
	"time" // time converts the configured TTL into a duration

	"github.com/joho/godotenv"    // loads .env files during local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured JSON logging

	"github.com/iliyamo/hotel-room-reservation/internal/booking"    // reservation lifecycle controller
	"github.com/iliyamo/hotel-room-reservation/internal/config"     // environment configuration
	"github.com/iliyamo/hotel-room-reservation/internal/database"   // MySQL connection pool
	"github.com/iliyamo/hotel-room-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hotel-room-reservation/internal/middleware" // caching and rate limiting
	"github.com/iliyamo/hotel-room-reservation/internal/payment"    // payment gateway
	"github.com/iliyamo/hotel-room-reservation/internal/queue"      // reservation event consumer
	"github.com/iliyamo/hotel-room-reservation/internal/repository" // data access layer
	"github.com/iliyamo/hotel-room-reservation/internal/router"     // route registration
	"github.com/iliyamo/hotel-room-reservation/internal/service"    // queue publisher
)

func main() {
	// Load a local .env file when present.  In production the variables
	// come from the real environment, so a missing file is not an error.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis backs the pending-intent store, the response cache and the
	// rate limiter.  When it is unreachable the service still runs: the
	// intent store falls back to process memory and the middlewares are
	// skipped.
	rdb := config.NewRedisClient()
	intentTTL := time.Duration(cfg.IntentTTLMin) * time.Minute

	var intents booking.IntentStore
	if rdb != nil {
		intents = repository.NewRedisIntentStore(rdb, intentTTL)
	} else {
		logger.Warn("redis unavailable, using in-memory intent store")
		intents = repository.NewMemoryIntentStore(intentTTL)
	}

	categories := repository.NewRoomCategoryRepo(db)
	reservations := repository.NewReservationRepo(db)

	ctrl := booking.NewController(
		categories,
		reservations,
		intents,
		payment.NewSandboxGateway(),
		booking.NewPricer(uint32(cfg.TaxRateBps)),
		service.NewPublisher(),
		booking.Config{IntentTTL: intentTTL, Currency: cfg.Currency},
		logger,
	)

	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(categories, ctrl), cacheMW)
	router.RegisterBooking(e, handler.NewBookingHandler(ctrl), cfg.JWTSecret, rateMW)

	// Consume confirmation and conflict events in the background.  The
	// consumer reconnects on its own, so a startup failure here only
	// delays event processing.
	go func() {
		if err := queue.StartReservationConsumer(logger); err != nil {
			logger.WithError(err).Warn("reservation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil { // Start HTTP server
		logger.WithError(err).Fatal("server stopped")
	}
}
