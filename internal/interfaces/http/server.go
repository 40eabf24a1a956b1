// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/checkout"
	"github.com/your-org/storefront-api/internal/domain/favorite"
	"github.com/your-org/storefront-api/internal/domain/newsletter"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/payment"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/region"
	"github.com/your-org/storefront-api/internal/domain/shipping"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/interfaces/http/routes"
	"github.com/your-org/storefront-api/internal/pkg/email"
	"github.com/your-org/storefront-api/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, logger *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *Server {
	return &Server{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()

	deps := s.buildDependencies()

	s.setupMiddleware()
	s.setupRoutes(deps)

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// buildDependencies wires the domain services
func (s *Server) buildDependencies() *routes.Dependencies {
	feed := events.NewFeed(s.redisClient, s.logger)
	mailer := email.NewService(&s.config.External.Email, &s.config.App, s.logger)
	gateway := payment.NewGateway(&s.config.External.Payment, s.logger)
	orderService := order.NewService(s.db, feed, mailer, s.logger)

	return &routes.Dependencies{
		Config:            s.config,
		Logger:            s.logger,
		Feed:              feed,
		UserService:       user.NewService(s.db, s.config, s.logger),
		ProductService:    product.NewService(s.db, s.config),
		CartService:       cart.NewService(s.db, s.redisClient, s.config, feed, s.logger),
		FavoriteService:   favorite.NewService(s.db, feed),
		CheckoutService:   checkout.NewService(s.db, s.redisClient, s.config, gateway, feed, s.logger),
		OrderService:      orderService,
		ShippingResolver:  shipping.NewResolver(&s.config.External.Shipping, shipping.NewStore(s.db), s.logger),
		PaymentGateway:    gateway,
		RegionClient:      region.NewClient(&s.config.External.Regions),
		NewsletterService: newsletter.NewService(s.db, mailer, s.logger),
		PDFService:        pdf.NewService(&s.config.App),
	}
}

// setupMiddleware configures the global middleware chain
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(s.config, s.redisClient))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes(deps *routes.Dependencies) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	// Standard API routes run under a request timeout
	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.Timeout(30 * time.Second))
	routes.SetupRoutes(apiV1, deps)

	// The SSE stream holds connections open and skips the timeout
	realtimeV1 := s.gin.Group("/api/v1")
	routes.SetupRealtimeRoutes(realtimeV1, deps)
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database connection error",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
