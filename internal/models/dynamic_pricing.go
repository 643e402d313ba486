package models

import (
	"time"

	"hotelchain/internal/pricing"

	"github.com/google/uuid"
)

// DynamicPricing is the pricing record of one hotel room type. Context and
// Current are stored as JSONB; the current price and its validity window are
// also kept in plain columns for range and competitor queries.
type DynamicPricing struct {
	ID        uuid.UUID       `db:"id"`
	HotelID   uuid.UUID       `db:"hotel_id"`
	RoomType  string          `db:"room_type"`
	Context   pricing.Context `db:"context"`
	Current   *pricing.Result `db:"current_pricing"`
	IsActive  bool            `db:"is_active"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// CompetitorAnalysis summarizes current prices of one room type in a location.
type CompetitorAnalysis struct {
	Location   string  `json:"location"`
	RoomType   string  `json:"room_type"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	PriceCount int     `json:"price_count"`
}
