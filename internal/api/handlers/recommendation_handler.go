package handlers

import (
	"context"
	"errors"

	"hotelchain/internal/dto"
	"hotelchain/internal/repository"
	"hotelchain/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecommendationService interface {
	Generate(ctx context.Context, req *dto.GenerateRecommendationsRequest) (*dto.GenerateRecommendationsResponse, error)
	Track(ctx context.Context, req *dto.TrackInteractionRequest, device string) (*dto.TrackInteractionResponse, error)
	Trending(ctx context.Context, location, timeframe string) (*dto.TrendingResponse, error)
	HotelInsights(ctx context.Context, hotelID uuid.UUID, userID string) (*dto.HotelInsightsResponse, error)
	Analytics(ctx context.Context, f repository.SessionFilter) (*dto.AnalyticsResponse, error)
}

type RecommendationHandler struct {
	recService RecommendationService
	logger     *zap.Logger
}

func NewRecommendationHandler(recService RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recService: recService,
		logger:     logger,
	}
}

// Generate godoc
// @Summary Generate recommendations
// @Description Rank hotels in a destination for a user and store the session
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body dto.GenerateRecommendationsRequest true "Search and preferences"
// @Success 200 {object} dto.GenerateRecommendationsResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/recommendations/generate [post]
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRecommendationsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := validate(&req); err != nil {
		return validationFailed(c, err)
	}

	resp, err := h.recService.Generate(c.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to generate recommendations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate recommendations",
		})
	}

	return c.JSON(resp)
}

// Track godoc
// @Summary Track an interaction
// @Description Record a user interaction with a recommendation session
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body dto.TrackInteractionRequest true "Interaction"
// @Success 200 {object} dto.TrackInteractionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/recommendations/track [post]
func (h *RecommendationHandler) Track(c *fiber.Ctx) error {
	var req dto.TrackInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := validate(&req); err != nil {
		return validationFailed(c, err)
	}

	device := "unknown"
	if c.Get(fiber.HeaderUserAgent) != "" {
		device = "web"
	}

	resp, err := h.recService.Track(c.Context(), &req, device)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recommendation session not found",
			})
		}
		h.logger.Error("Failed to track interaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to track interaction",
		})
	}

	return c.JSON(resp)
}

// Trending godoc
// @Summary Trending hotels
// @Description Hotels ranked by recent interactions
// @Tags recommendations
// @Produce json
// @Param location query string false "City substring"
// @Param timeframe query string false "1d, 7d or 30d" default(7d)
// @Success 200 {object} dto.TrendingResponse
// @Router /api/v1/recommendations/trending [get]
func (h *RecommendationHandler) Trending(c *fiber.Ctx) error {
	resp, err := h.recService.Trending(c.Context(), c.Query("location"), c.Query("timeframe"))
	if err != nil {
		h.logger.Error("Failed to get trending hotels", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get trending hotels",
		})
	}

	return c.JSON(resp)
}

// HotelInsights godoc
// @Summary Hotel insights for a user
// @Tags recommendations
// @Produce json
// @Param hotelId path string true "Hotel ID"
// @Param user_id query string false "User ID"
// @Success 200 {object} dto.HotelInsightsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/recommendations/hotel/{hotelId}/insights [get]
func (h *RecommendationHandler) HotelInsights(c *fiber.Ctx) error {
	hotelID, err := uuid.Parse(c.Params("hotelId"))
	if err != nil {
		return badRequest(c, "Invalid hotel id")
	}

	resp, err := h.recService.HotelInsights(c.Context(), hotelID, c.Query("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrHotelNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Hotel not found",
			})
		}
		h.logger.Error("Failed to get hotel insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get hotel insights",
		})
	}

	return c.JSON(resp)
}

// Analytics godoc
// @Summary Recommendation analytics
// @Description Aggregate session metrics, admin only
// @Tags recommendations
// @Produce json
// @Security Bearer
// @Param start_date query string false "Start date"
// @Param end_date query string false "End date"
// @Param user_id query string false "User ID"
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/recommendations/analytics [get]
func (h *RecommendationHandler) Analytics(c *fiber.Ctx) error {
	filter := repository.SessionFilter{UserID: c.Query("user_id")}

	if s := c.Query("start_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return badRequest(c, "Invalid start_date")
		}
		filter.From = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return badRequest(c, "Invalid end_date")
		}
		filter.To = &t
	}

	resp, err := h.recService.Analytics(c.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			return badRequest(c, "start_date must not be after end_date")
		}
		h.logger.Error("Failed to get analytics", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get analytics",
		})
	}

	return c.JSON(resp)
}
