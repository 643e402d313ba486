package recommend

import (
	"errors"
	"time"

	"hotelchain/internal/pricing"
)

// Fallbacks used when a hotel or user record lacks the data a factor needs.
const (
	DefaultHotelPrice    = 10000.0
	DefaultHotelRating   = 3.0
	DefaultPriceRangeMin = 0.0
	DefaultPriceRangeMax = 50000.0
	DefaultTravelPurpose = "leisure"
	DefaultAdults        = 2

	MaxPreferredAmenities = 5
	MaxReasons            = 4
)

var ErrHotelNotFound = errors.New("hotel not found")

type Category string

const (
	CategoryPerfectMatch   Category = "perfect_match"
	CategoryBudgetFriendly Category = "budget_friendly"
	CategoryLuxuryUpgrade  Category = "luxury_upgrade"
	CategorySimilarTaste   Category = "similar_taste"
	CategoryTrending       Category = "trending"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryPerfectMatch,
	CategoryBudgetFriendly,
	CategoryLuxuryUpgrade,
	CategorySimilarTaste,
	CategoryTrending,
}

type RoomType struct {
	Type       string  `json:"type"`
	Price      float64 `json:"price"`
	TotalRooms int     `json:"total_rooms"`
	Available  int     `json:"available"`
}

// Hotel is a candidate hotel as resolved from the directory.
type Hotel struct {
	ID            string     `json:"hotel_id"`
	Name          string     `json:"name"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Rating        float64    `json:"rating"`
	Amenities     []string   `json:"amenities"`
	Images        []string   `json:"images,omitempty"`
	RoomTypes     []RoomType `json:"room_types"`
	TotalBookings int        `json:"total_bookings"`
}

// Price is the price of the first room type, or DefaultHotelPrice.
func (h *Hotel) Price() float64 {
	if len(h.RoomTypes) > 0 && h.RoomTypes[0].Price > 0 {
		return h.RoomTypes[0].Price
	}
	return DefaultHotelPrice
}

func (h *Hotel) rating() float64 {
	if h.Rating > 0 {
		return h.Rating
	}
	return DefaultHotelRating
}

// HasAvailability reports whether any room type has a free room.
func (h *Hotel) HasAvailability() bool {
	for _, rt := range h.RoomTypes {
		if rt.Available > 0 {
			return true
		}
	}
	return false
}

// PastBooking is one confirmed or completed booking with the booked hotel's
// city and amenities resolved.
type PastBooking struct {
	HotelID        string   `json:"hotel_id"`
	TotalAmount    float64  `json:"total_amount"`
	HotelCity      string   `json:"hotel_city"`
	HotelAmenities []string `json:"hotel_amenities"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type GroupSize struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type BookingHistory struct {
	TotalBookings      int      `json:"total_bookings"`
	AvgPrice           float64  `json:"avg_price"`
	PreferredLocations []string `json:"preferred_locations"`
	PreferredAmenities []string `json:"preferred_amenities"`
}

type BehaviorPatterns struct {
	SearchFrequency  int            `json:"search_frequency"`
	InteractionTypes map[string]int `json:"interaction_types"`
}

type ProfilePreferences struct {
	PriceRange    PriceRange `json:"price_range"`
	TravelPurpose string     `json:"travel_purpose"`
	GroupSize     GroupSize  `json:"group_size"`
}

// UserProfile summarizes a user's booking and interaction history.
type UserProfile struct {
	UserID           string             `json:"user_id"`
	BookingHistory   BookingHistory     `json:"booking_history"`
	BehaviorPatterns BehaviorPatterns   `json:"behavior_patterns"`
	Preferences      ProfilePreferences `json:"preferences"`
}

// Budget is an explicitly requested price band. Preferred is optional.
type Budget struct {
	Min       float64  `json:"min" validate:"gte=0"`
	Max       float64  `json:"max" validate:"gte=0,gtefield=Min"`
	Preferred *float64 `json:"preferred,omitempty" validate:"omitempty,gte=0"`
}

// Preferences are explicit asks for one request. A nil Amenities falls back
// to the profile's preferred amenities; a non-nil empty slice disables the
// amenity factor.
type Preferences struct {
	Budget        *Budget  `json:"budget,omitempty"`
	Amenities     []string `json:"amenities"`
	TravelPurpose string   `json:"travel_purpose,omitempty"`
}

type SearchCriteria struct {
	Destination string     `json:"destination"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Guests      int        `json:"guests,omitempty"`
}

// Factors holds the contribution of each scoring factor. A zero value means
// the factor did not fire.
type Factors struct {
	LocationMatch     float64 `json:"location_match,omitempty"`
	PriceMatch        float64 `json:"price_match,omitempty"`
	AmenityMatch      float64 `json:"amenity_match,omitempty"`
	RatingScore       float64 `json:"rating_score"`
	AvailabilityBonus float64 `json:"availability_bonus,omitempty"`
	BehaviorBonus     float64 `json:"behavior_bonus,omitempty"`
}

type AIScore struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Factors    Factors `json:"factors"`
}

type AvailabilityStatus string

const (
	AvailabilityLow    AvailabilityStatus = "low"
	AvailabilityMedium AvailabilityStatus = "medium"
	AvailabilityHigh   AvailabilityStatus = "high"
)

type Availability struct {
	RoomsLeft int                `json:"rooms_left"`
	Status    AvailabilityStatus `json:"status"`
	Urgency   bool               `json:"urgency"`
}

// Result is one ranked recommendation.
type Result struct {
	HotelID        string          `json:"hotel_id"`
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	Rating         float64         `json:"rating"`
	Image          string          `json:"image"`
	Amenities      []string        `json:"amenities"`
	Score          float64         `json:"score"`
	Confidence     float64         `json:"confidence"`
	Reasons        []string        `json:"reasons"`
	Category       Category        `json:"category"`
	DynamicPricing *pricing.Result `json:"dynamic_pricing"`
	Availability   Availability    `json:"availability"`
	Popularity     int             `json:"popularity"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
