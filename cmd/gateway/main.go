package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parceldesk/booking-gateway/internal/application"
	"github.com/parceldesk/booking-gateway/internal/cache"
	"github.com/parceldesk/booking-gateway/internal/cache/rediscache"
	"github.com/parceldesk/booking-gateway/internal/config"
	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/events"
	"github.com/parceldesk/booking-gateway/internal/handler"
	"github.com/parceldesk/booking-gateway/internal/logging"
	"github.com/parceldesk/booking-gateway/internal/remote"
	"github.com/parceldesk/booking-gateway/internal/session"
	"github.com/parceldesk/booking-gateway/internal/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logging.New(cfg.AppEnv, "booking-gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting booking-gateway",
		zap.String("addr", cfg.Addr),
		zap.String("remote", cfg.Remote.BaseURL),
	)

	// Session store and tracking cache: Redis when configured, in-process
	// otherwise.
	var (
		sessions      session.Store
		trackingCache cache.BytesCache
	)
	if cfg.Redis.Enabled() {
		redisStore := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.SessionTTL())
		defer func() { _ = redisStore.Close() }()
		sessions = redisStore
		rc := rediscache.New(cfg.Redis.Addr)
		defer func() { _ = rc.Close() }()
		trackingCache = rc
		log.Info("redis enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = session.NewMemoryStore()
		log.Info("redis disabled, using in-memory sessions")
	}

	// Remote courier backend client
	remoteClient := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout(), log)

	// Activity event producer (nil when no brokers are configured)
	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic, log)
	defer func() { _ = producer.Close() }()

	// Application services
	bookingService := application.NewBookingService(
		remoteClient,
		sessions,
		booking.DefaultRateTable(),
		trackingCache,
		cfg.Redis.TrackingTTL(),
		producer,
		log,
	)
	cancellationService := application.NewCancellationService(
		remoteClient,
		sessions,
		trackingCache,
		producer,
		log,
	)

	// HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	cancellationHandler := handler.NewCancellationHandler(cancellationService)
	sessionHandler := handler.NewSessionHandler(sessions)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(web.Recovery(log))
	router.Use(web.Logger(log))
	router.Use(web.RequestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "booking-gateway"})
	})

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	cancellationHandler.RegisterRoutes(&router.RouterGroup)
	sessionHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down booking-gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("booking-gateway stopped")
}
