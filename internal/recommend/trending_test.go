package recommend

import (
	"testing"
	"time"
)

func interaction(action, hotelID string, score interface{}) Interaction {
	data := map[string]interface{}{}
	if hotelID != "" {
		data["hotelId"] = hotelID
	}
	if score != nil {
		data["score"] = score
	}
	return Interaction{Action: action, Data: data}
}

func TestParseTimeframe(t *testing.T) {
	tests := map[string]time.Duration{
		"1d":  24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30d": 30 * 24 * time.Hour,
		"":    7 * 24 * time.Hour,
		"2w":  7 * 24 * time.Hour,
	}
	for in, want := range tests {
		if got := ParseTimeframe(in); got != want {
			t.Errorf("ParseTimeframe(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	for in, want := range map[string]string{"1d": "1d", "30d": "30d", "": "7d", "1y": "7d"} {
		if got := NormalizeTimeframe(in); got != want {
			t.Errorf("NormalizeTimeframe(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrendingHotels(t *testing.T) {
	now := t0
	sessions := []*Session{
		{
			UserID:         "u1",
			CreatedAt:      now.Add(-time.Hour),
			SearchCriteria: SearchCriteria{Destination: "North Goa"},
			Interactions: []Interaction{
				interaction(ActionHotelViewed, "h1", 0.8),
				interaction(ActionHotelLiked, "h1", 0.6),
				interaction(ActionRecommendationsViewed, "h1", nil),
				interaction(ActionHotelViewed, "h2", nil),
				interaction(ActionHotelViewed, "", 0.9),
			},
		},
		{
			UserID:         "u2",
			CreatedAt:      now.Add(-2 * time.Hour),
			SearchCriteria: SearchCriteria{Destination: "goa"},
			Interactions: []Interaction{
				interaction(ActionBookingInitiated, "h1", nil),
			},
		},
		{
			UserID:         "u3",
			CreatedAt:      now.Add(-8 * 24 * time.Hour),
			SearchCriteria: SearchCriteria{Destination: "Goa"},
			Interactions:   []Interaction{interaction(ActionHotelViewed, "h3", 1.0)},
		},
		{
			UserID:         "u4",
			CreatedAt:      now.Add(-time.Hour),
			SearchCriteria: SearchCriteria{Destination: "Delhi"},
			Interactions:   []Interaction{interaction(ActionHotelViewed, "h4", 1.0)},
		},
	}

	got := TrendingHotels(sessions, "7d", "GOA", now, 10)
	if len(got) != 2 {
		t.Fatalf("got %d hotels, want 2: %+v", len(got), got)
	}

	h1 := got[0]
	if h1.HotelID != "h1" || h1.InteractionCount != 3 || h1.UniqueUsers != 2 {
		t.Errorf("unexpected first entry: %+v", h1)
	}
	if !approx(h1.AvgScore, 0.7) {
		t.Errorf("avg score = %v, want 0.7", h1.AvgScore)
	}
	if !approx(h1.TrendingScore, 3*0.2*0.7) {
		t.Errorf("trending score = %v", h1.TrendingScore)
	}

	h2 := got[1]
	if h2.HotelID != "h2" || h2.AvgScore != 0.5 || !approx(h2.TrendingScore, 1*0.1*0.5) {
		t.Errorf("unexpected second entry: %+v", h2)
	}
}

func TestTrendingHotels_LimitAndTies(t *testing.T) {
	var ins []Interaction
	for _, id := range []string{"a", "b", "c", "d"} {
		ins = append(ins, interaction(ActionHotelViewed, id, nil))
	}
	sessions := []*Session{{UserID: "u", CreatedAt: t0, Interactions: ins}}

	got := TrendingHotels(sessions, "1d", "", t0, 3)
	if len(got) != 3 {
		t.Fatalf("got %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].HotelID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].HotelID, want)
		}
	}

	if got := TrendingHotels(nil, "7d", "", t0, 0); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}
