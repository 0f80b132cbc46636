package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"shopmart/internal/caching"
	"shopmart/internal/handlers"
	"shopmart/internal/jobs/background"
	"shopmart/internal/middleware"
	"shopmart/internal/repositories"
	"shopmart/internal/services"
	"shopmart/pkg/database"
)

func main() {
	ctx := context.Background()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	imageSvc, err := services.NewProductImageService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize product image storage: %v", err)
	}

	// Repositories and transaction manager
	repos := repositories.NewRepos(pool)
	txManager := repositories.NewTxManager(pool)
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	orderSvc := services.NewOrderService(txManager, repos, userRepo, cacheSvc)
	orderItemSvc := services.NewOrderItemService(txManager, repos, cacheSvc)
	productSvc := services.NewProductService(repos.Products, cacheSvc, imageSvc)

	// Handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	orderItemHandlers := handlers.NewOrderItemHandlers(orderItemSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categoryRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(repos.Products, repos.Orders)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// Protected API routes
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTMiddleware(jwtSecret))

	// Order routes
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders", orderHandlers.GetOrders)
	v1.GET("/orders/:id", orderHandlers.GetOrderByID)
	v1.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus)
	v1.PUT("/orders/:id/cancel", orderHandlers.CancelOrder)
	v1.DELETE("/orders/:id", orderHandlers.DeleteOrder)
	v1.GET("/orders/user/:userId", orderHandlers.GetOrdersByUserID)

	// Order item routes
	v1.GET("/order-items", orderItemHandlers.GetOrderItems)
	v1.GET("/order-items/:id", orderItemHandlers.GetOrderItemByID)
	v1.GET("/order-items/order/:orderId", orderItemHandlers.GetOrderItemsByOrderID)
	v1.GET("/order-items/product/:productId", orderItemHandlers.GetOrderItemsByProductID)
	v1.POST("/order-items/order/:orderId", orderItemHandlers.AddItemToOrder)
	v1.PUT("/order-items/:id/quantity", orderItemHandlers.UpdateOrderItemQuantity)
	v1.DELETE("/order-items/:id", orderItemHandlers.RemoveOrderItem)

	// Product routes
	v1.GET("/products", productHandlers.ListProducts)
	v1.POST("/products", productHandlers.CreateProduct)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.PUT("/products/:id", productHandlers.UpdateProduct)
	v1.DELETE("/products/:id", productHandlers.DeleteProduct)
	v1.POST("/products/:id/image", productHandlers.UploadProductImage)
	v1.GET("/products/:id/image", productHandlers.GetProductImage)

	// Category routes
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.POST("/categories", categoryHandlers.CreateCategory)
	v1.GET("/categories/:id", categoryHandlers.GetCategory)
	v1.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	v1.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("Shopmart server starting on port %s", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}
