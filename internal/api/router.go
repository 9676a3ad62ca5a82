package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/guestpass/guestpass/internal/app"
	"github.com/guestpass/guestpass/internal/handlers"
	"github.com/guestpass/guestpass/internal/middleware"
	"github.com/guestpass/guestpass/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(db *gorm.DB, cfg *app.Config, registration *services.RegistrationService, checkins *services.CheckinService, audit *services.AuditService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if registration == nil {
		return nil, fmt.Errorf("registration service must be provided")
	}
	if checkins == nil {
		return nil, fmt.Errorf("checkin service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	guestHandler := handlers.NewGuestHandler(registration, checkins, audit, cfg.Admin.Token)
	checkinHandler := handlers.NewCheckinHandler(checkins, audit)
	auditHandler := handlers.NewAuditHandler(audit, cfg.Admin.Token)

	registerGuestRoutes(r, guestHandler)
	registerCheckinRoutes(r, checkinHandler)
	registerAuditRoutes(r, auditHandler)

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
