package dto

import (
	"time"

	"hotelchain/internal/recommend"
)

type RecommendationFilters struct {
	Category string `json:"category" validate:"omitempty,oneof=all perfect_match budget_friendly luxury_upgrade similar_taste trending"`
}

type GenerateRecommendationsRequest struct {
	UserID         string                   `json:"user_id" validate:"required,uuid"`
	SessionID      string                   `json:"session_id" validate:"required,max=128"`
	SearchCriteria recommend.SearchCriteria `json:"search_criteria"`
	Preferences    *recommend.Preferences   `json:"preferences"`
	Filters        RecommendationFilters    `json:"filters"`
}

type GenerateRecommendationsResponse struct {
	SessionID       string             `json:"session_id"`
	Recommendations []recommend.Result `json:"recommendations"`
	Insights        recommend.Insights `json:"insights"`
}

type TrackInteractionRequest struct {
	UserID    string                 `json:"user_id" validate:"required"`
	SessionID string                 `json:"session_id" validate:"required,uuid"`
	Action    string                 `json:"action" validate:"required,max=64"`
	Data      map[string]interface{} `json:"data"`
	Timestamp *time.Time             `json:"timestamp"`
}

type TrackInteractionResponse struct {
	Message string                       `json:"message"`
	Metrics recommend.PerformanceMetrics `json:"performance_metrics"`
}

type TrendingHotelResponse struct {
	recommend.TrendingHotel
	Hotel *recommend.Hotel `json:"hotel,omitempty"`
}

type TrendingResponse struct {
	Timeframe string                  `json:"timeframe"`
	Trending  []TrendingHotelResponse `json:"trending"`
}

type HotelInsightsResponse struct {
	Hotel    *recommend.Hotel        `json:"hotel"`
	Insights recommend.HotelInsights `json:"insights"`
}

type AnalyticsResponse struct {
	Analytics recommend.Analytics `json:"analytics"`
}
