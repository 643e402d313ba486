package recommend

import (
	"sync"
	"time"
)

// Interaction actions with a defined effect on performance metrics.
const (
	ActionRecommendationsViewed = "recommendations_viewed"
	ActionHotelViewed           = "hotel_viewed"
	ActionBookingInitiated      = "booking_initiated"
	ActionHotelLiked            = "hotel_liked"
	ActionHotelDisliked         = "hotel_disliked"
)

type InteractionContext struct {
	DeviceType        string `json:"device_type"`
	SessionDurationMs int64  `json:"session_duration_ms"`
}

// Interaction is one entry of a session's append-only event log.
type Interaction struct {
	Action    string                 `json:"action"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Context   InteractionContext     `json:"context"`
}

// HotelID returns the hotel the interaction refers to, if any.
func (in Interaction) HotelID() string {
	for _, key := range []string{"hotelId", "hotel_id"} {
		if v, ok := in.Data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Score returns the recommendation score attached to the interaction.
func (in Interaction) Score() (float64, bool) {
	switch v := in.Data["score"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

type PerformanceMetrics struct {
	TotalViews       int     `json:"total_views"`
	TotalClicks      int     `json:"total_clicks"`
	TotalBookings    int     `json:"total_bookings"`
	EngagementScore  float64 `json:"engagement_score"`
	ClickThroughRate float64 `json:"click_through_rate"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// Apply records action in the counters and recomputes the derived rates.
// Unknown actions leave the metrics unchanged.
func (m *PerformanceMetrics) Apply(action string) {
	switch action {
	case ActionRecommendationsViewed:
		m.TotalViews++
	case ActionHotelViewed:
		m.TotalClicks++
	case ActionBookingInitiated:
		m.TotalBookings++
	case ActionHotelLiked:
		m.EngagementScore++
	case ActionHotelDisliked:
		m.EngagementScore -= 0.5
	default:
		return
	}

	if m.TotalViews > 0 {
		m.ClickThroughRate = float64(m.TotalClicks) / float64(m.TotalViews)
	}
	if m.TotalClicks > 0 {
		m.ConversionRate = float64(m.TotalBookings) / float64(m.TotalClicks)
	}
}

// Session is a persisted recommendation session. Track is the only mutating
// operation and is serialized by the session's mutex; a Session must be
// passed by pointer.
type Session struct {
	mu sync.Mutex

	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	SessionID       string              `json:"session_id"`
	SearchCriteria  SearchCriteria      `json:"search_criteria"`
	Preferences     *Preferences        `json:"preferences,omitempty"`
	Profile         UserProfile         `json:"user_profile"`
	Recommendations []Result            `json:"recommendations"`
	Insights        Insights            `json:"ai_insights"`
	Interactions    []Interaction       `json:"user_interactions"`
	Metrics         *PerformanceMetrics `json:"performance_metrics,omitempty"`
	GeneratedAt     time.Time           `json:"generated_at"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// Track appends an interaction to the log and updates the performance
// metrics, initializing them on first use. It returns a copy of the
// updated metrics.
func (s *Session) Track(action string, data map[string]interface{}, at time.Time, device string) PerformanceMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Interactions = append(s.Interactions, Interaction{
		Action:    action,
		Data:      data,
		Timestamp: at,
		Context: InteractionContext{
			DeviceType:        device,
			SessionDurationMs: at.Sub(s.CreatedAt).Milliseconds(),
		},
	})

	if s.Metrics == nil {
		s.Metrics = &PerformanceMetrics{}
	}
	s.Metrics.Apply(action)
	s.UpdatedAt = at

	return *s.Metrics
}
