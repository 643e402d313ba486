package pricing

import "time"

type Season string

const (
	SeasonPeak   Season = "peak"
	SeasonHigh   Season = "high"
	SeasonMedium Season = "medium"
	SeasonLow    Season = "low"
	SeasonOff    Season = "off"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DayOfWeekFor maps a time.Weekday onto the pricing day names.
func DayOfWeekFor(d time.Weekday) DayOfWeek {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
	TierDiamond  LoyaltyTier = "diamond"
)

type EventType string

const (
	EventConference EventType = "conference"
	EventConcert    EventType = "concert"
	EventSports     EventType = "sports"
	EventFestival   EventType = "festival"
	EventExhibition EventType = "exhibition"
	EventWedding    EventType = "wedding"
)

// Defaults applied by DefaultContext and DefaultRules.
const (
	DefaultMaxIncreasePercent          = 50.0
	DefaultMaxDecreasePercent          = 30.0
	DefaultPriceChangeFrequencyMinutes = 60
)

// DayMultipliers lists the day-of-week surcharges. Days not present are
// priced at 1.
var DayMultipliers = map[DayOfWeek]float64{
	Friday:   1.1,
	Saturday: 1.2,
	Sunday:   1.1,
}

// LoyaltyDiscounts lists the multiplier applied per loyalty tier.
var LoyaltyDiscounts = map[LoyaltyTier]float64{
	TierBronze:   0.95,
	TierSilver:   0.9,
	TierGold:     0.85,
	TierPlatinum: 0.8,
	TierDiamond:  0.75,
}

// Context is the full set of inputs for one pricing calculation of a
// hotel room type.
type Context struct {
	BasePrice float64         `json:"base_price" validate:"gte=0"`
	Demand    DemandFactors   `json:"demand_factors"`
	Seasonal  SeasonalFactors `json:"seasonal_factors"`
	Events    EventFactors    `json:"event_factors"`
	Time      TimeFactors     `json:"time_factors"`
	Customer  CustomerFactors `json:"customer_factors"`
	Rules     Rules           `json:"pricing_rules"`
}

type DemandFactors struct {
	OccupancyRate   float64 `json:"occupancy_rate" validate:"gte=0,lte=1"`
	BookingVelocity float64 `json:"booking_velocity" validate:"gte=0"`
	SearchVolume    float64 `json:"search_volume" validate:"gte=0"`
	MarketDemand    float64 `json:"market_demand" validate:"gte=0,lte=5"`
}

type SeasonalFactors struct {
	Season           Season        `json:"season" validate:"omitempty,oneof=peak high medium low off"`
	SeasonMultiplier float64       `json:"season_multiplier" validate:"gt=0"`
	Weather          WeatherImpact `json:"weather_impact"`
	Holiday          HolidayPeriod `json:"holiday_period"`
}

type WeatherImpact struct {
	Condition  string  `json:"condition,omitempty"`
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
}

type HolidayPeriod struct {
	IsHoliday   bool    `json:"is_holiday"`
	HolidayName string  `json:"holiday_name,omitempty"`
	Multiplier  float64 `json:"multiplier" validate:"gt=0"`
}

type EventFactors struct {
	LocalEvents []LocalEvent `json:"local_events" validate:"dive"`
}

type LocalEvent struct {
	EventName       string    `json:"event_name"`
	EventType       EventType `json:"event_type,omitempty" validate:"omitempty,oneof=conference concert sports festival exhibition wedding"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date" validate:"gtefield=StartDate"`
	PriceMultiplier float64   `json:"price_multiplier" validate:"gt=0"`
}

// ActiveAt reports whether the event covers t, bounds inclusive.
func (e LocalEvent) ActiveAt(t time.Time) bool {
	return !t.Before(e.StartDate) && !t.After(e.EndDate)
}

type TimeFactors struct {
	DayOfWeek  DayOfWeek  `json:"day_of_week" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	LastMinute LastMinute `json:"last_minute"`
}

type LastMinute struct {
	IsLastMinute       bool    `json:"is_last_minute"`
	HoursBeforeCheckIn float64 `json:"hours_before_check_in,omitempty"`
	Multiplier         float64 `json:"multiplier" validate:"gt=0"`
}

type CustomerFactors struct {
	LoyaltyTier LoyaltyTier `json:"loyalty_tier,omitempty" validate:"omitempty,oneof=bronze silver gold platinum diamond"`
}

// Rules bound the calculated price. MinPrice and MaxPrice are optional;
// only a configured side is clamped.
type Rules struct {
	MinPrice                    *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice                    *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	MaxIncreasePercent          float64  `json:"max_increase_percent" validate:"gte=0"`
	MaxDecreasePercent          float64  `json:"max_decrease_percent" validate:"gte=0,lte=100"`
	PriceChangeFrequencyMinutes int      `json:"price_change_frequency_minutes" validate:"gt=0"`
}

func DefaultRules() Rules {
	return Rules{
		MaxIncreasePercent:          DefaultMaxIncreasePercent,
		MaxDecreasePercent:          DefaultMaxDecreasePercent,
		PriceChangeFrequencyMinutes: DefaultPriceChangeFrequencyMinutes,
	}
}

// DefaultContext returns a context for basePrice with every multiplier set
// to 1 and the default pricing rules.
func DefaultContext(basePrice float64) Context {
	return Context{
		BasePrice: basePrice,
		Seasonal: SeasonalFactors{
			SeasonMultiplier: 1,
			Weather:          WeatherImpact{Multiplier: 1},
			Holiday:          HolidayPeriod{Multiplier: 1},
		},
		Time: TimeFactors{
			LastMinute: LastMinute{Multiplier: 1},
		},
		Rules: DefaultRules(),
	}
}

// MultiplierBounds returns the lowest and highest multiplier the rules allow.
func (r Rules) MultiplierBounds() (lo, hi float64) {
	return 1 - r.MaxDecreasePercent/100, 1 + r.MaxIncreasePercent/100
}
