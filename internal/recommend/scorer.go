package recommend

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"hotelchain/internal/pricing"
)

// Factor weights of the additive score.
const (
	baseScore         = 0.5
	locationWeight    = 0.2
	priceInRangeBonus = 0.25
	pricePreferred    = 0.15
	amenityWeight     = 0.2
	ratingWeight      = 0.15
	availabilityBonus = 0.1
	behaviorBonus     = 0.05

	perfectMatchScore   = 0.85
	similarTasteAmenity = 0.15
	amenityReasonMin    = 0.1
	budgetReasonMin     = 0.2
	highRating          = 4.5
)

// Scorer produces scores, categories and reasons for candidate hotels.
// It holds no per-request state and is safe for concurrent use.
type Scorer struct {
	currency string
	printer  *message.Printer
}

func NewScorer(currencySymbol string) *Scorer {
	return &Scorer{
		currency: currencySymbol,
		printer:  message.NewPrinter(language.English),
	}
}

// CalculateAIScore scores hotel against the profile and optional explicit
// preferences. Score and confidence are always within [0,1].
func (s *Scorer) CalculateAIScore(hotel *Hotel, profile *UserProfile, prefs *Preferences, criteria *SearchCriteria) (AIScore, error) {
	if hotel == nil {
		return AIScore{}, ErrHotelNotFound
	}
	if prefs == nil {
		prefs = &Preferences{}
	}

	var f Factors
	score := baseScore

	if slices.Contains(profile.BookingHistory.PreferredLocations, hotel.City) {
		f.LocationMatch = locationWeight
	}

	price := hotel.Price()
	band := PriceRange{Min: profile.Preferences.PriceRange.Min, Max: profile.Preferences.PriceRange.Max}
	var preferred *float64
	if prefs.Budget != nil {
		band = PriceRange{Min: prefs.Budget.Min, Max: prefs.Budget.Max}
		preferred = prefs.Budget.Preferred
	}
	if price >= band.Min && price <= band.Max {
		f.PriceMatch = priceInRangeBonus
	} else if preferred != nil && price <= *preferred {
		f.PriceMatch = pricePreferred
	}

	wanted := prefs.Amenities
	if wanted == nil {
		wanted = profile.BookingHistory.PreferredAmenities
	}
	if len(wanted) > 0 {
		matches := 0
		for _, a := range hotel.Amenities {
			if slices.Contains(wanted, a) {
				matches++
			}
		}
		f.AmenityMatch = float64(matches) / float64(len(wanted)) * amenityWeight
	}

	f.RatingScore = hotel.rating() / 5 * ratingWeight

	if hotel.HasAvailability() {
		f.AvailabilityBonus = availabilityBonus
	}

	types := profile.BehaviorPatterns.InteractionTypes
	if types["hotel_liked"] > types["hotel_disliked"] {
		f.BehaviorBonus = behaviorBonus
	}

	score += f.LocationMatch + f.PriceMatch + f.AmenityMatch + f.RatingScore + f.AvailabilityBonus + f.BehaviorBonus
	score = math.Min(math.Max(score, 0), 1)

	confidence := 0.5
	if profile.BookingHistory.TotalBookings > 0 {
		confidence += 0.2
	}
	if len(wanted) > 0 {
		confidence += 0.15
	}
	if len(types) > 0 {
		confidence += 0.15
	}

	return AIScore{
		Score:      score,
		Confidence: math.Min(confidence, 1),
		Factors:    f,
	}, nil
}

// DetermineCategory classifies a scored hotel. The first matching rule wins
// and every input maps to exactly one category. A nil pricing skips the
// price-based rules.
func DetermineCategory(score AIScore, dp *pricing.Result, profile *UserProfile) Category {
	switch {
	case score.Score > perfectMatchScore:
		return CategoryPerfectMatch
	case dp != nil && dp.Discount > 0:
		return CategoryBudgetFriendly
	case dp != nil && dp.FinalPrice > profile.Preferences.PriceRange.Max:
		return CategoryLuxuryUpgrade
	case score.Factors.AmenityMatch > similarTasteAmenity:
		return CategorySimilarTaste
	default:
		return CategoryTrending
	}
}

// DetermineCategory is the Scorer form of the package function.
func (s *Scorer) DetermineCategory(score AIScore, dp *pricing.Result, profile *UserProfile) Category {
	return DetermineCategory(score, dp, profile)
}

// GenerateReasons explains a score in at most MaxReasons sentences, in a
// fixed order.
func (s *Scorer) GenerateReasons(score AIScore, hotel *Hotel, profile *UserProfile, dp *pricing.Result) []string {
	reasons := make([]string, 0, 5)

	if score.Factors.LocationMatch > 0 {
		reasons = append(reasons, fmt.Sprintf("You've stayed in %s before", hotel.City))
	}
	if score.Factors.PriceMatch > budgetReasonMin {
		reasons = append(reasons, "Perfect match for your budget")
	}
	if score.Factors.AmenityMatch > amenityReasonMin {
		reasons = append(reasons, "Has amenities you typically prefer")
	}
	if hotel.Rating >= highRating {
		reasons = append(reasons, "Highly rated by guests")
	}
	if dp != nil && dp.Discount > 0 {
		reasons = append(reasons, fmt.Sprintf("Save %s%s with current offer", s.currency, s.FormatAmount(dp.Discount)))
	}

	if len(reasons) > MaxReasons {
		reasons = reasons[:MaxReasons]
	}
	return reasons
}

// FormatAmount renders an amount with thousands separators.
func (s *Scorer) FormatAmount(v float64) string {
	return s.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// AvailabilityInfo summarizes the free rooms of a hotel across room types.
func AvailabilityInfo(hotel *Hotel) Availability {
	var total, free int
	for _, rt := range hotel.RoomTypes {
		total += rt.TotalRooms
		free += rt.Available
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(free) / float64(total)
	}

	a := Availability{RoomsLeft: free, Status: AvailabilityHigh}
	switch {
	case ratio < 0.2:
		a.Status = AvailabilityLow
		a.Urgency = true
	case ratio < 0.5:
		a.Status = AvailabilityMedium
	}
	return a
}
