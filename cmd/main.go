package main

import (
	"net/http"
	"os"
	"time"

	"mixmall_backend/config"
	"mixmall_backend/internal/auth"
	"mixmall_backend/internal/delivery"
	"mixmall_backend/internal/metrics"
	"mixmall_backend/internal/repository"
	"mixmall_backend/internal/usecase"
	"mixmall_backend/pkg/db"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Mixmall Backend...")
	logger.Infof("Log level set to: %s", logLevel.String())

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Hour)

	// --- Dependency Injection ---
	userRepo := repository.NewPostgresUserRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
	brandRepo := repository.NewPostgresBrandRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	courierRepo := repository.NewPostgresCourierRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	statsRepo := repository.NewPostgresStatsRepository(database, logger)
	logger.Info("Repositories initialized.")

	userUseCase := usecase.NewUserUseCase(userRepo, tokenManager, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, categoryRepo, brandRepo, logger)
	catalogUseCase := usecase.NewCatalogUseCase(categoryRepo, brandRepo, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	courierUseCase := usecase.NewCourierUseCase(courierRepo, logger)
	checkoutUseCase := usecase.NewCheckoutUseCase(userRepo, cartRepo, productRepo, orderRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, courierRepo, logger)
	statsUseCase := usecase.NewStatsUseCase(statsRepo, logger)
	logger.Info("Use cases initialized.")

	userHandler := delivery.NewUserHandler(userUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	categoryHandler := delivery.NewCategoryHandler(catalogUseCase, logger)
	cartHandler := delivery.NewCartHandler(cartUseCase, logger)
	courierHandler := delivery.NewCourierHandler(courierUseCase, logger)
	orderHandler := delivery.NewOrderHandler(checkoutUseCase, orderUseCase, logger)
	statsHandler := delivery.NewStatsHandler(statsUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(delivery.RequestID())
	router.Use(delivery.RequestLogger(logger))
	router.Use(metrics.PrometheusMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Public endpoints
	userHandler.RegisterPublicRoutes(api)
	productHandler.RegisterPublicRoutes(api)
	categoryHandler.RegisterPublicRoutes(api)

	// Authenticated endpoints
	authenticated := api.Group("")
	authenticated.Use(delivery.AuthMiddleware(tokenManager, logger))
	userHandler.RegisterProfileRoutes(authenticated)
	cartHandler.RegisterRoutes(authenticated)
	orderHandler.RegisterCustomerRoutes(authenticated)

	// Admin endpoints
	admin := api.Group("")
	admin.Use(delivery.AuthMiddleware(tokenManager, logger), delivery.AdminOnly(logger))
	userHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	courierHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	statsHandler.RegisterAdminRoutes(admin)
	logger.Info("Routes registered.")

	// --- Start Server ---
	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
