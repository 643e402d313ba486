package api

import (
	"errors"

	"hotelchain/docs"
	"hotelchain/internal/api/handlers"
	"hotelchain/internal/models"
	"hotelchain/pkg/auth"
	"hotelchain/pkg/config"
	"hotelchain/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Pricing        *handlers.PricingHandler
	Recommendation *handlers.RecommendationHandler
}

func SetupRouter(h Handlers, serverCfg *config.ServerConfig, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())
	app.Use(middleware.Metrics())

	// Swagger, documentation is registered by the docs package init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	v1 := app.Group("/api/v1")
	requireAuth := middleware.AuthMiddleware(jwtManager, appLogger)

	// Pricing routes
	pricingRoutes := v1.Group("/pricing")
	pricingRoutes.Post("/quote", h.Pricing.Quote)
	pricingRoutes.Get("/competitors", h.Pricing.Competitors)
	pricingRoutes.Get("/:hotelId/:roomType", h.Pricing.Current)
	pricingRoutes.Get("/:hotelId/:roomType/range", h.Pricing.Range)
	pricingRoutes.Put("/:hotelId/:roomType/demand",
		requireAuth,
		middleware.RequireRole(appLogger, string(models.RoleStaff), string(models.RoleAdmin)),
		h.Pricing.UpdateDemand,
	)

	// Recommendation routes
	recRoutes := v1.Group("/recommendations")
	recRoutes.Post("/generate", h.Recommendation.Generate)
	recRoutes.Post("/track", h.Recommendation.Track)
	recRoutes.Get("/trending", h.Recommendation.Trending)
	recRoutes.Get("/hotel/:hotelId/insights", h.Recommendation.HotelInsights)
	recRoutes.Get("/analytics",
		requireAuth,
		middleware.RequireRole(appLogger, string(models.RoleAdmin)),
		h.Recommendation.Analytics,
	)

	return app
}
