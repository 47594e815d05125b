package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gatepass/api/routes"
	"gatepass/internal/notifications"
	"gatepass/internal/seats"
	"gatepass/internal/shared/config"
	"gatepass/internal/shared/database"
	"gatepass/pkg/logger"
	"gatepass/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:          cfg.RateLimit.Enabled,
			WindowDuration:   cfg.RateLimit.WindowDuration,
			DefaultRequests:  cfg.RateLimit.DefaultRequests,
			PublicRequests:   cfg.RateLimit.PublicRequests,
			AuthRequests:     cfg.RateLimit.AuthRequests,
			RegisterRequests: cfg.RateLimit.RegisterRequests,
			CheckInRequests:  cfg.RateLimit.CheckInRequests,
			StaffRequests:    cfg.RateLimit.StaffRequests,
			HealthRequests:   cfg.RateLimit.HealthRequests,
			WhitelistedIPs:   cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("register_requests", cfg.RateLimit.RegisterRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Domain event pipeline
	publisher := notifications.NewNoopPublisher()
	var consumer notifications.Consumer
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := notifications.NewKafkaPublisher(notifications.ProducerConfig{
			Brokers:     cfg.Kafka.Brokers,
			EventsTopic: cfg.Kafka.EventsTopic,
			RetryMax:    3,
			Timeout:     10 * time.Second,
		}, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka publisher, continuing without events", slog.Any("error", err))
		} else {
			publisher = kafkaPublisher

			consumer, err = notifications.NewKafkaConsumer(notifications.ConsumerConfig{
				Brokers: cfg.Kafka.Brokers,
				GroupID: cfg.Kafka.ConsumerGroup,
				Topics:  []string{cfg.Kafka.EventsTopic},
			}, notifications.NewLogHandler(appLogger), appLogger)
			if err != nil {
				appLogger.Error("Failed to initialize Kafka consumer", slog.Any("error", err))
				consumer = nil
			}
		}
	}
	defer publisher.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if consumer != nil {
		if err := consumer.Start(consumerCtx); err != nil {
			appLogger.Error("Failed to start Kafka consumer", slog.Any("error", err))
		} else {
			defer consumer.Stop()
		}
	}

	// Router
	appRouter := routes.NewRouter(cfg, db, publisher, appLogger)
	engine := setupEngine(cfg, rateLimiter, appLogger)
	appRouter.SetupRoutes(engine)

	// Reservation hold sweeper
	sweeper := seats.NewSweeper(appRouter.SeatRepository(), publisher, cfg.Reservation.SweepInterval, appLogger)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()
	sweeper.Start(sweeperCtx)
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("kafka_events", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
