package pricing

import (
	"fmt"
	"math"
	"time"

	"hotelchain/pkg/validation"
)

// Result is the outcome of one pricing calculation.
type Result struct {
	FinalPrice      float64   `json:"final_price"`
	OriginalPrice   float64   `json:"original_price"`
	Discount        float64   `json:"discount"`
	Surcharge       float64   `json:"surcharge"`
	TotalMultiplier float64   `json:"total_multiplier"`
	Reasons         []string  `json:"reasons"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
}

// ValidAt reports whether t falls inside the result's validity window.
func (r *Result) ValidAt(t time.Time) bool {
	return !t.Before(r.ValidFrom) && t.Before(r.ValidUntil)
}

type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, which decides active events and the validity window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate rejects contexts the engine must not price. Inputs are never
// clamped: only the calculated price is.
func (c *Context) Validate() error {
	verr := validation.Struct(c)
	if verr == nil {
		verr = &validation.Error{}
	}
	if c.Rules.MinPrice != nil && c.Rules.MaxPrice != nil && *c.Rules.MinPrice > *c.Rules.MaxPrice {
		verr.Add("pricing_rules.min_price", "ltefield", "pricing_rules.min_price must not exceed pricing_rules.max_price")
	}
	if err := verr.OrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContext, err)
	}
	return nil
}

// Calculate validates c and computes its dynamic price. The final price is
// rounded after the multiplier is clamped, so it stays within the rule bounds
// only to within 0.5 of the currency unit.
func (e *Engine) Calculate(c Context) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}
	return e.calculate(&c, e.now()), nil
}

func (e *Engine) calculate(c *Context, now time.Time) Result {
	multiplier := 1.0
	reasons := []string{}

	switch {
	case c.Demand.OccupancyRate > 0.8:
		multiplier *= 1.3
		reasons = append(reasons, "High occupancy rate")
	case c.Demand.OccupancyRate < 0.3:
		multiplier *= 0.8
		reasons = append(reasons, "Low occupancy - special rate")
	}

	multiplier *= c.Seasonal.SeasonMultiplier
	if c.Seasonal.SeasonMultiplier > 1 {
		reasons = append(reasons, fmt.Sprintf("%s season premium", c.Seasonal.Season))
	}

	multiplier *= c.Seasonal.Weather.Multiplier

	if c.Seasonal.Holiday.IsHoliday {
		multiplier *= c.Seasonal.Holiday.Multiplier
		reasons = append(reasons, fmt.Sprintf("%s holiday pricing", c.Seasonal.Holiday.HolidayName))
	}

	// Every concurrently active event compounds.
	for _, ev := range c.Events.LocalEvents {
		if ev.ActiveAt(now) {
			multiplier *= ev.PriceMultiplier
			reasons = append(reasons, fmt.Sprintf("%s event pricing", ev.EventName))
		}
	}

	if m, ok := DayMultipliers[c.Time.DayOfWeek]; ok {
		multiplier *= m
		reasons = append(reasons, "Weekend premium")
	}

	if c.Time.LastMinute.IsLastMinute {
		multiplier *= c.Time.LastMinute.Multiplier
		reasons = append(reasons, "Last minute booking")
	}

	if m, ok := LoyaltyDiscounts[c.Customer.LoyaltyTier]; ok {
		multiplier *= m
		reasons = append(reasons, fmt.Sprintf("%s loyalty discount", c.Customer.LoyaltyTier))
	}

	lo, hi := c.Rules.MultiplierBounds()
	multiplier = math.Max(lo, math.Min(hi, multiplier))

	price := math.Round(c.BasePrice * multiplier)
	if c.Rules.MaxPrice != nil {
		price = math.Min(*c.Rules.MaxPrice, price)
	}
	if c.Rules.MinPrice != nil {
		price = math.Max(*c.Rules.MinPrice, price)
	}

	return Result{
		FinalPrice:      price,
		OriginalPrice:   c.BasePrice,
		Discount:        math.Max(0, c.BasePrice-price),
		Surcharge:       math.Max(0, price-c.BasePrice),
		TotalMultiplier: multiplier,
		Reasons:         reasons,
		ValidFrom:       now,
		ValidUntil:      now.Add(time.Duration(c.Rules.PriceChangeFrequencyMinutes) * time.Minute),
	}
}

// ComputeMarketDemand scores current booking pressure on a 0-5 scale.
func ComputeMarketDemand(d DemandFactors) float64 {
	demand := 1.0
	demand += d.OccupancyRate * 2

	if d.BookingVelocity > 5 {
		demand++
	} else if d.BookingVelocity < 1 {
		demand--
	}

	if d.SearchVolume > 100 {
		demand += 0.5
	}

	return math.Max(0, math.Min(5, demand))
}
