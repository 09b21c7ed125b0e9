// Package server assembles the HTTP API from the feature modules.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"realtyflow/internal/config"
	"realtyflow/internal/middleware"
	"realtyflow/internal/modules/auth"
	"realtyflow/internal/modules/booking"
	"realtyflow/internal/modules/communication"
	"realtyflow/internal/modules/dashboard"
	"realtyflow/internal/modules/inventory"
	"realtyflow/internal/modules/lead"
	"realtyflow/internal/modules/negotiation"
	"realtyflow/internal/modules/partner"
	"realtyflow/internal/modules/payment"
	"realtyflow/internal/modules/realtime"
	"realtyflow/internal/modules/schedule"
	"realtyflow/internal/modules/search"
	"realtyflow/internal/pkg/jwt"
	"realtyflow/internal/pkg/response"
	"realtyflow/internal/repository"
)

type Deps struct {
	Config  *config.Config
	Repos   *repository.Repositories
	Tokens  *jwt.Service
	Index   search.LeadIndex
	Hub     *realtime.Hub
	Loggerf func(format string, args ...interface{})
}

// Server exposes the engine plus the services the background jobs and
// bootstrap code need.
type Server struct {
	Engine    *gin.Engine
	Auth      *auth.Service
	Inventory *inventory.Service
	Payments  *payment.Service
}

func New(d Deps) *Server {
	if d.Loggerf == nil {
		d.Loggerf = func(string, ...interface{}) {}
	}
	if d.Index == nil {
		d.Index = search.Noop{}
	}
	if d.Hub == nil {
		d.Hub = realtime.NewHub(d.Loggerf)
	}

	lifecycle := inventory.NewLifecycle(d.Config.Inventory.BlockTTL)
	authService := auth.NewService(d.Repos.Users, d.Tokens)
	inventoryService := inventory.NewService(d.Repos, lifecycle, d.Hub)
	bookingService := booking.NewService(d.Repos, lifecycle, d.Hub)
	negotiationService := negotiation.NewService(d.Repos, bookingService)
	paymentService := payment.NewService(d.Repos, d.Loggerf)
	leadService := lead.NewService(d.Repos, d.Index, d.Loggerf)

	authHandler := auth.NewHandler(authService)
	protectedHandlers := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		inventory.NewHandler(inventoryService),
		schedule.NewHandler(),
		booking.NewHandler(bookingService),
		negotiation.NewHandler(negotiationService),
		payment.NewHandler(paymentService, d.Loggerf),
		lead.NewHandler(leadService),
		communication.NewHandler(communication.NewService(d.Repos)),
		partner.NewHandler(partner.NewService(d.Repos)),
		dashboard.NewHandler(dashboard.NewService(d.Repos.Dashboard)),
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.Config.HTTP.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		if err := ping(d.Repos); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)
	realtime.NewHandler(d.Hub, d.Tokens, d.Config.HTTP.AllowedOrigins).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(d.Tokens))
	{
		authHandler.RegisterProtectedRoutes(protected)
		for _, h := range protectedHandlers {
			h.RegisterRoutes(protected)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "ROUTE_NOT_FOUND", "Route not found")
	})

	return &Server{
		Engine:    r,
		Auth:      authService,
		Inventory: inventoryService,
		Payments:  paymentService,
	}
}

func ping(repos *repository.Repositories) error {
	sqlDB, err := repos.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
