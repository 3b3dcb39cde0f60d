package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikeychann-hash/Evies-Epoxy/config"
	"github.com/mikeychann-hash/Evies-Epoxy/controllers"
	"github.com/mikeychann-hash/Evies-Epoxy/database"
	"github.com/mikeychann-hash/Evies-Epoxy/logger"
	"github.com/mikeychann-hash/Evies-Epoxy/middleware"
	"github.com/mikeychann-hash/Evies-Epoxy/ratelimit"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
	"github.com/mikeychann-hash/Evies-Epoxy/routes"
	"github.com/mikeychann-hash/Evies-Epoxy/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer zap.L().Sync() //nolint:errcheck

	db, err := database.Connect(cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)

	limiter := ratelimit.NewLimiter()
	defer limiter.Stop()

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.AppURL)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	productSvc := services.NewProductService(productRepo, categoryRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	checkoutSvc := services.NewCheckoutService(productRepo, orderRepo, stripeSvc)
	orderSvc := services.NewOrderService(orderRepo)
	reconciler := services.NewReconcilerService(orderRepo, productRepo)

	cache := controllers.NewCacheManager(redisClient)

	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc),
		Product:  controllers.NewProductController(productSvc, cache),
		Category: controllers.NewCategoryController(categorySvc),
		Checkout: controllers.NewCheckoutController(checkoutSvc),
		Order:    controllers.NewOrderController(orderSvc),
		Webhook:  controllers.NewWebhookController(stripeSvc, reconciler),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	routes.Register(r, ctrl, limiter, cfg.JWTSecret)

	zap.L().Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}
