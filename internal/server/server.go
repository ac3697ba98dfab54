package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"commerce-platform/internal/client"
	"commerce-platform/internal/config"
	custommiddleware "commerce-platform/internal/middleware"
	"commerce-platform/internal/repository"
	"commerce-platform/internal/service"
	"commerce-platform/internal/transport"

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
	redis  *redis.Client
}

// NewProductServer wires the product catalog service.
func NewProductServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router, redisClient := newRouter(cfg, logger)

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierClient := client.NewSupplierClient(cfg.Supplier)

	productService := service.NewProductService(productRepo, categoryRepo, supplierClient)

	productHandler := transport.NewProductHandler(productService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	productHandler.RegisterRoutes(router, authMiddleware)

	return newServer(cfg, logger, db, redisClient, router)
}

// NewPaymentServer wires the payment service.
func NewPaymentServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router, redisClient := newRouter(cfg, logger)

	paymentRepo := repository.NewPaymentRepository(db)

	paymentService := service.NewPaymentService(paymentRepo)

	paymentHandler := transport.NewPaymentHandler(paymentService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	paymentHandler.RegisterRoutes(router, authMiddleware)

	return newServer(cfg, logger, db, redisClient, router)
}

func newRouter(cfg *config.Config, logger *zap.Logger) (chi.Router, *redis.Client) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router, redisClient
}

func newServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, router chi.Router) *Server {
	return &Server{
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
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
