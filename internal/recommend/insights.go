package recommend

import (
	"math"
	"strings"
)

const (
	luxuryAvgPrice = 15000.0
	budgetAvgPrice = 5000.0

	DefaultBestBookingTime = "2-3 weeks in advance"
)

// Insights is the summary attached to a generated recommendation list.
type Insights struct {
	UserStyle        string `json:"user_style"`
	BestBookingTime  string `json:"best_booking_time"`
	TrendingCategory string `json:"trending_category"`
}

// GenerateInsights describes the traveler and the dominant category of the
// returned results.
func GenerateInsights(profile *UserProfile, results []Result) Insights {
	in := Insights{
		UserStyle:        "Value Seeker",
		BestBookingTime:  DefaultBestBookingTime,
		TrendingCategory: "Luxury Hotels",
	}

	switch avg := profile.BookingHistory.AvgPrice; {
	case avg > luxuryAvgPrice:
		in.UserStyle = "Luxury Traveler"
	case avg < budgetAvgPrice:
		in.UserStyle = "Budget Conscious"
	}

	counts := map[Category]int{}
	var order []Category
	for _, r := range results {
		if counts[r.Category] == 0 {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	var top Category
	for _, c := range order {
		if top == "" || counts[c] > counts[top] {
			top = c
		}
	}
	if top != "" {
		in.TrendingCategory = strings.Replace(string(top), "_", " ", 1)
	}

	return in
}

type PriceComparison struct {
	HotelPrice        float64 `json:"hotel_price"`
	UserAvgPrice      float64 `json:"user_avg_price"`
	DifferencePercent float64 `json:"difference_percent"`
	WithinBudget      bool    `json:"within_budget"`
}

// HotelInsights is the personalized view of a single hotel.
type HotelInsights struct {
	PersonalizedScore AIScore         `json:"personalized_score"`
	PriceComparison   PriceComparison `json:"price_comparison"`
	Availability      Availability    `json:"availability"`
	BestTimeToBook    string          `json:"best_time_to_book"`
	SimilarHotels     []Result        `json:"similar_hotels"`
}

// ComparePrice relates the hotel's price to the user's booking history.
// DifferencePercent is zero when the user has no priced bookings.
func ComparePrice(hotel *Hotel, profile *UserProfile) PriceComparison {
	price := hotel.Price()
	pc := PriceComparison{
		HotelPrice:   price,
		UserAvgPrice: profile.BookingHistory.AvgPrice,
		WithinBudget: price >= profile.Preferences.PriceRange.Min && price <= profile.Preferences.PriceRange.Max,
	}
	if pc.UserAvgPrice > 0 {
		pc.DifferencePercent = math.Round((price-pc.UserAvgPrice)/pc.UserAvgPrice*10000) / 100
	}
	return pc
}
