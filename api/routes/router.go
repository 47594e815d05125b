// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gatepass/internal/auth"
	"gatepass/internal/checkin"
	"gatepass/internal/events"
	"gatepass/internal/notifications"
	"gatepass/internal/payments"
	"gatepass/internal/registrations"
	"gatepass/internal/seats"
	"gatepass/internal/shared/config"
	"gatepass/internal/shared/database"
	"gatepass/internal/tickets"
	"gatepass/internal/users"
	"gatepass/pkg/cache"
	"gatepass/pkg/logger"
)

// Router wires repositories, services and controllers together
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	log       *logger.Logger

	// kept after wiring so main can hand it to the sweeper
	seatRepo seats.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// SeatRepository exposes the seat repository wired during SetupRoutes.
func (r *Router) SeatRepository() seats.Repository {
	return r.seatRepo
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	pg := r.db.GetPostgreSQL()
	cacheService := cache.NewService(r.db.GetRedisClient())

	// Repositories
	userRepo := users.NewRepository(pg)
	eventRepo := events.NewRepository(pg)
	seatRepo := seats.NewRepository(pg)
	ticketRepo := tickets.NewRepository(pg)
	regRepo := registrations.NewRepository(pg)
	checkinRepo := checkin.NewRepository(pg)
	paymentRepo := payments.NewRepository(pg)
	authRepo := auth.NewRepository(pg)
	r.seatRepo = seatRepo

	// Services
	userService := users.NewService(userRepo)
	seatService := seats.NewService(seatRepo, eventRepo, cacheService, r.config.Redis.SeatMapCacheTTL)
	regService := registrations.NewService(
		pg, regRepo, eventRepo, userService, seatRepo, seatService,
		ticketRepo, r.publisher, r.config.Reservation.HoldTTL, r.log,
	)
	eventService := events.NewService(eventRepo, regService, cacheService, r.config.Redis.EventCacheTTL)
	ticketService := tickets.NewService(ticketRepo)
	checkinService := checkin.NewService(pg, checkinRepo, ticketRepo, userService, r.publisher, r.log)
	paymentService := payments.NewService(
		pg, paymentRepo, regRepo, seatRepo, seatService, ticketRepo, r.publisher, r.log,
	)
	authService := auth.NewService(authRepo, r.config)

	// Routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, auth.NewController(authService, r.log))
		events.SetupEventRoutes(api, events.NewController(eventService))
		seats.SetupSeatRoutes(api, seats.NewController(seatService))
		registrations.SetupRegistrationRoutes(api, registrations.NewController(regService))
		tickets.SetupTicketRoutes(api, tickets.NewController(ticketService))
		checkin.SetupCheckInRoutes(api, checkin.NewController(checkinService))
		payments.SetupPaymentRoutes(api, payments.NewController(paymentService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "gatepass",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "gatepass",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
