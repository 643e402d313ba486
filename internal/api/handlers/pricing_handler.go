package handlers

import (
	"context"
	"errors"
	"time"

	"hotelchain/internal/dto"
	"hotelchain/internal/pricing"
	"hotelchain/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PricingService interface {
	Quote(c pricing.Context) (*dto.PricingResponse, error)
	Current(ctx context.Context, hotelID uuid.UUID, roomType string) (*dto.PricingResponse, error)
	UpdateDemand(ctx context.Context, hotelID uuid.UUID, roomType string, req *dto.UpdateDemandRequest) (*dto.PricingResponse, error)
	Range(ctx context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) (*dto.PricingRangeResponse, error)
	Competitors(ctx context.Context, location, roomType string) (*dto.CompetitorResponse, error)
}

type PricingHandler struct {
	pricingService PricingService
	logger         *zap.Logger
}

func NewPricingHandler(pricingService PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// Quote godoc
// @Summary Price a pricing context
// @Description Calculate the dynamic price of a supplied pricing context without storing it
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Pricing context"
// @Success 200 {object} dto.PricingResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/pricing/quote [post]
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	// Fields left out of the body keep their default values.
	req := dto.QuoteRequest{Context: pricing.DefaultContext(0)}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.pricingService.Quote(req.Context)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidContext) {
			return validationFailed(c, err)
		}
		h.logger.Error("Quote failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Pricing failed",
		})
	}

	return c.JSON(resp)
}

// Current godoc
// @Summary Current room price
// @Description Current dynamic price of a hotel room type, recalculated when the stored price has expired
// @Tags pricing
// @Produce json
// @Param hotelId path string true "Hotel ID"
// @Param roomType path string true "Room type"
// @Success 200 {object} dto.PricingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/pricing/{hotelId}/{roomType} [get]
func (h *PricingHandler) Current(c *fiber.Ctx) error {
	hotelID, err := uuid.Parse(c.Params("hotelId"))
	if err != nil {
		return badRequest(c, "Invalid hotel id")
	}

	resp, err := h.pricingService.Current(c.Context(), hotelID, c.Params("roomType"))
	if err != nil {
		return h.pricingError(c, err, "Failed to get pricing")
	}

	return c.JSON(resp)
}

// UpdateDemand godoc
// @Summary Update demand signals
// @Description Replace the demand factors of a room type and reprice it
// @Tags pricing
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotelId path string true "Hotel ID"
// @Param roomType path string true "Room type"
// @Param request body dto.UpdateDemandRequest true "Demand factors"
// @Success 200 {object} dto.PricingResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/pricing/{hotelId}/{roomType}/demand [put]
func (h *PricingHandler) UpdateDemand(c *fiber.Ctx) error {
	hotelID, err := uuid.Parse(c.Params("hotelId"))
	if err != nil {
		return badRequest(c, "Invalid hotel id")
	}

	var req dto.UpdateDemandRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := validate(&req); err != nil {
		return validationFailed(c, err)
	}

	resp, err := h.pricingService.UpdateDemand(c.Context(), hotelID, c.Params("roomType"), &req)
	if err != nil {
		return h.pricingError(c, err, "Failed to update demand")
	}

	userID, _ := c.Locals("userID").(string)
	h.logger.Info("Demand updated by user",
		zap.String("user_id", userID),
		zap.String("hotel_id", hotelID.String()),
	)
	return c.JSON(resp)
}

// Range godoc
// @Summary Prices in a date range
// @Description Stored prices of a room type whose validity overlaps the range
// @Tags pricing
// @Produce json
// @Param hotelId path string true "Hotel ID"
// @Param roomType path string true "Room type"
// @Param from query string true "Range start (YYYY-MM-DD or RFC 3339)"
// @Param to query string true "Range end (YYYY-MM-DD or RFC 3339)"
// @Success 200 {object} dto.PricingRangeResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/pricing/{hotelId}/{roomType}/range [get]
func (h *PricingHandler) Range(c *fiber.Ctx) error {
	hotelID, err := uuid.Parse(c.Params("hotelId"))
	if err != nil {
		return badRequest(c, "Invalid hotel id")
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		return badRequest(c, "Invalid from date")
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return badRequest(c, "Invalid to date")
	}

	resp, err := h.pricingService.Range(c.Context(), hotelID, c.Params("roomType"), from, to)
	if err != nil {
		return h.pricingError(c, err, "Failed to list pricing")
	}

	return c.JSON(resp)
}

// Competitors godoc
// @Summary Competitor price summary
// @Description Average, minimum and maximum current price of a room type in a location
// @Tags pricing
// @Produce json
// @Param location query string true "City"
// @Param room_type query string false "Room type"
// @Success 200 {object} dto.CompetitorResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/pricing/competitors [get]
func (h *PricingHandler) Competitors(c *fiber.Ctx) error {
	location := c.Query("location")
	if location == "" {
		return badRequest(c, "location is required")
	}

	resp, err := h.pricingService.Competitors(c.Context(), location, c.Query("room_type"))
	if err != nil {
		return h.pricingError(c, err, "Failed to analyze competitors")
	}

	return c.JSON(resp)
}

func (h *PricingHandler) pricingError(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrPricingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pricing not found",
		})
	case errors.Is(err, service.ErrInvalidRange):
		return badRequest(c, "from must not be after to")
	case errors.Is(err, pricing.ErrInvalidContext):
		return validationFailed(c, err)
	}
	h.logger.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
