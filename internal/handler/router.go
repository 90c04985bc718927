package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"treatment_tracker/internal/middleware"
	"treatment_tracker/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports store health for /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	Auth           *AuthHandler
	Treatments     *TreatmentHandler
	JWT            *utils.JWTUtil
	DB             Pinger
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with middleware and all API routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

	jwtAuthMW := middleware.JWTAuthMiddleware(cfg.JWT)

	apiGroup := router.Group("/api")
	cfg.Auth.RegisterAuthRoutes(apiGroup, jwtAuthMW)
	cfg.Treatments.RegisterTreatmentRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", func(c *gin.Context) {
		if cfg.DB != nil {
			if err := cfg.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	return router
}
