package recommend

import (
	"sort"
	"strings"
	"time"
)

const (
	DefaultTimeframe     = "7d"
	DefaultTrendingLimit = 10

	defaultTrendingScore = 0.5
)

var timeframes = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// trendingActions are the interactions that count towards popularity.
var trendingActions = map[string]bool{
	ActionHotelViewed:      true,
	ActionHotelLiked:       true,
	ActionBookingInitiated: true,
}

// ParseTimeframe maps "1d", "7d" and "30d" to a duration. Anything else is
// treated as "7d".
func ParseTimeframe(tf string) time.Duration {
	if d, ok := timeframes[tf]; ok {
		return d
	}
	return timeframes[DefaultTimeframe]
}

// NormalizeTimeframe returns tf when it is a known timeframe, otherwise
// DefaultTimeframe.
func NormalizeTimeframe(tf string) string {
	if _, ok := timeframes[tf]; ok {
		return tf
	}
	return DefaultTimeframe
}

type TrendingHotel struct {
	HotelID          string  `json:"hotel_id"`
	InteractionCount int     `json:"interaction_count"`
	UniqueUsers      int     `json:"unique_users"`
	AvgScore         float64 `json:"avg_score"`
	TrendingScore    float64 `json:"trending_score"`
}

type trendAcc struct {
	TrendingHotel
	users    map[string]struct{}
	scoreSum float64
	scored   int
	seen     int
}

// TrendingHotels ranks hotels by recent interaction popularity across
// sessions created within the timeframe before now. A non-empty location
// keeps only sessions whose destination contains it, case-insensitively.
// Interactions without a hotel id are ignored. Ties keep first-seen order.
func TrendingHotels(sessions []*Session, timeframe, location string, now time.Time, limit int) []TrendingHotel {
	since := now.Add(-ParseTimeframe(timeframe))
	location = strings.ToLower(location)

	byHotel := map[string]*trendAcc{}
	for _, s := range sessions {
		if s.CreatedAt.Before(since) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(s.SearchCriteria.Destination), location) {
			continue
		}
		for _, in := range s.Interactions {
			if !trendingActions[in.Action] {
				continue
			}
			id := in.HotelID()
			if id == "" {
				continue
			}
			acc, ok := byHotel[id]
			if !ok {
				acc = &trendAcc{
					TrendingHotel: TrendingHotel{HotelID: id},
					users:         map[string]struct{}{},
					seen:          len(byHotel),
				}
				byHotel[id] = acc
			}
			acc.InteractionCount++
			acc.users[s.UserID] = struct{}{}
			if v, ok := in.Score(); ok {
				acc.scoreSum += v
				acc.scored++
			}
		}
	}

	accs := make([]*trendAcc, 0, len(byHotel))
	for _, acc := range byHotel {
		acc.UniqueUsers = len(acc.users)
		acc.AvgScore = defaultTrendingScore
		if acc.scored > 0 {
			acc.AvgScore = acc.scoreSum / float64(acc.scored)
		}
		acc.TrendingScore = float64(acc.InteractionCount) * (float64(acc.UniqueUsers) / 10) * acc.AvgScore
		accs = append(accs, acc)
	}

	sort.Slice(accs, func(i, j int) bool {
		if accs[i].TrendingScore != accs[j].TrendingScore {
			return accs[i].TrendingScore > accs[j].TrendingScore
		}
		return accs[i].seen < accs[j].seen
	})

	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if len(accs) > limit {
		accs = accs[:limit]
	}

	out := make([]TrendingHotel, len(accs))
	for i, acc := range accs {
		out[i] = acc.TrendingHotel
	}
	return out
}
