package dto

import (
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
)

// QuoteRequest is a pricing context priced without touching storage. Omitted
// fields take the values of pricing.DefaultContext.
type QuoteRequest struct {
	Context pricing.Context `json:"pricing_context"`
}

type PricingResponse struct {
	HotelID  string          `json:"hotel_id,omitempty"`
	RoomType string          `json:"room_type,omitempty"`
	Currency string          `json:"currency"`
	Pricing  *pricing.Result `json:"pricing"`
}

type UpdateDemandRequest struct {
	OccupancyRate   float64 `json:"occupancy_rate" validate:"gte=0,lte=1"`
	BookingVelocity float64 `json:"booking_velocity" validate:"gte=0"`
	SearchVolume    float64 `json:"search_volume" validate:"gte=0"`
}

type PricingRangeEntry struct {
	FinalPrice float64   `json:"final_price"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

type PricingRangeResponse struct {
	HotelID  string              `json:"hotel_id"`
	RoomType string              `json:"room_type"`
	From     time.Time           `json:"from"`
	To       time.Time           `json:"to"`
	Entries  []PricingRangeEntry `json:"entries"`
}

type CompetitorResponse struct {
	Currency string                     `json:"currency"`
	Analysis *models.CompetitorAnalysis `json:"analysis"`
}
