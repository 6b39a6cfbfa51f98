package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/audit"
	"product-catalog/internal/config"
	"product-catalog/internal/database"
	custommiddleware "product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	// Pipeline, outermost first: correlation id before anything that logs or
	// responds, then request logging, then the single error boundary.
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.CorrelationID)
	router.Use(custommiddleware.Logging(logger))
	router.Use(custommiddleware.ErrorHandling(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORS(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimit(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.RequestsPerMinute,
			Window:            time.Minute,
			KeyPrefix:         "rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := database.Health(db)
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Initialize repositories and services
	productRepo := repository.NewProductRepository(db)
	auditor := audit.NewRecorder(logger)
	productService := service.NewProductService(productRepo, auditor)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)

	// Route-scoped middleware: auth, then role check, then body validation,
	// matching the order the pipeline is contracted to run in.
	authMiddleware := custommiddleware.Auth(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	bodyValidation := custommiddleware.NewBodyValidation(logger)
	bodyValidation.Register(http.MethodPost, "/products", func() interface{} { return new(service.ProductDTO) })
	bodyValidation.Register(http.MethodPut, "/products", func() interface{} { return new(service.ProductDTO) })

	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware, bodyValidation.Middleware())

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
