package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hotelchain/internal/api"
	"hotelchain/internal/api/handlers"
	"hotelchain/internal/pricing"
	"hotelchain/internal/recommend"
	"hotelchain/internal/repository"
	"hotelchain/internal/service"
	"hotelchain/pkg/auth"
	"hotelchain/pkg/cache"
	"hotelchain/pkg/config"
	"hotelchain/pkg/logger"
	"hotelchain/pkg/postgres"

	"go.uber.org/zap"
)

// @title Hotel Chain Pricing & Recommendations API
// @version 1.0
// @description Dynamic room pricing and personalized hotel recommendations

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	logger.Info("Starting hotel chain service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize pricing cache, disabled without REDIS_ADDR
	redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis, appLogger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	pricingCache := cache.NewPricingCache(redisClient, appLogger)
	defer pricingCache.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	hotelRepo := repository.NewHotelRepository(db, appLogger)
	bookingRepo := repository.NewBookingRepository(db, appLogger)
	pricingRepo := repository.NewPricingRepository(db, appLogger)
	sessionRepo := repository.NewSessionRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	pricingService := service.NewPricingService(pricingRepo, pricingCache, pricing.NewEngine(), cfg.Pricing.CurrencySymbol, appLogger)
	recService := service.NewRecommendationService(
		hotelRepo,
		bookingRepo,
		sessionRepo,
		pricingService,
		recommend.NewScorer(cfg.Pricing.CurrencySymbol),
		cfg.Recommend,
		appLogger,
	)

	// Setup router
	app := api.SetupRouter(api.Handlers{
		Auth:           handlers.NewAuthHandler(authService, appLogger),
		Pricing:        handlers.NewPricingHandler(pricingService, appLogger),
		Recommendation: handlers.NewRecommendationHandler(recService, appLogger),
	}, &cfg.Server, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
