package recommend

import (
	"math"
	"sort"
)

// BuildUserProfile derives a profile from a user's bookings and past
// recommendation sessions. It does not modify its inputs.
func BuildUserProfile(userID string, bookings []PastBooking, sessions []*Session) UserProfile {
	profile := UserProfile{
		UserID: userID,
		BookingHistory: BookingHistory{
			TotalBookings:      len(bookings),
			PreferredLocations: []string{},
			PreferredAmenities: []string{},
		},
		BehaviorPatterns: BehaviorPatterns{
			SearchFrequency:  len(sessions),
			InteractionTypes: map[string]int{},
		},
		Preferences: ProfilePreferences{
			PriceRange:    PriceRange{Min: DefaultPriceRangeMin, Max: DefaultPriceRangeMax},
			TravelPurpose: DefaultTravelPurpose,
			GroupSize:     GroupSize{Adults: DefaultAdults},
		},
	}

	var total float64
	seenCity := map[string]bool{}
	for _, b := range bookings {
		total += b.TotalAmount
		if b.HotelCity != "" && !seenCity[b.HotelCity] {
			seenCity[b.HotelCity] = true
			profile.BookingHistory.PreferredLocations = append(profile.BookingHistory.PreferredLocations, b.HotelCity)
		}
	}
	profile.BookingHistory.AvgPrice = total / float64(max(1, len(bookings)))

	if len(bookings) > 0 {
		if r, ok := priceRangeOf(bookings); ok {
			profile.Preferences.PriceRange = r
		}
		profile.BookingHistory.PreferredAmenities = topAmenities(bookings, MaxPreferredAmenities)
	}

	for _, s := range sessions {
		for _, in := range s.Interactions {
			profile.BehaviorPatterns.InteractionTypes[in.Action]++
		}
	}

	return profile
}

// priceRangeOf widens the observed booking amounts by 20% on each side.
// Bookings without an amount are ignored.
func priceRangeOf(bookings []PastBooking) (PriceRange, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range bookings {
		if b.TotalAmount <= 0 {
			continue
		}
		lo = math.Min(lo, b.TotalAmount)
		hi = math.Max(hi, b.TotalAmount)
	}
	if math.IsInf(lo, 1) {
		return PriceRange{}, false
	}
	return PriceRange{Min: lo * 0.8, Max: hi * 1.2}, true
}

// topAmenities ranks amenities by how often they appear across booked
// hotels. Ties keep first-seen order.
func topAmenities(bookings []PastBooking, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, b := range bookings {
		for _, a := range b.HotelAmenities {
			if _, ok := counts[a]; !ok {
				order = append(order, a)
			}
			counts[a]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
