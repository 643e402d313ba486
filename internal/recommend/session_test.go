package recommend

import (
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestSessionTrack_Sequence(t *testing.T) {
	s := &Session{ID: "s1", CreatedAt: t0}
	actions := []string{
		ActionRecommendationsViewed,
		ActionHotelViewed,
		ActionHotelViewed,
		ActionBookingInitiated,
	}

	var got PerformanceMetrics
	for i, a := range actions {
		got = s.Track(a, map[string]interface{}{"hotelId": "h1"}, t0.Add(time.Duration(i)*time.Second), "mobile")
	}

	want := PerformanceMetrics{
		TotalViews:       1,
		TotalClicks:      2,
		TotalBookings:    1,
		ClickThroughRate: 2.0,
		ConversionRate:   0.5,
	}
	if got != want {
		t.Errorf("metrics = %+v, want %+v", got, want)
	}
	if *s.Metrics != want {
		t.Errorf("stored metrics = %+v, want %+v", *s.Metrics, want)
	}
	if len(s.Interactions) != len(actions) {
		t.Fatalf("interactions = %d, want %d", len(s.Interactions), len(actions))
	}
	last := s.Interactions[3]
	if last.Context.SessionDurationMs != 3000 || last.Context.DeviceType != "mobile" {
		t.Errorf("unexpected context: %+v", last.Context)
	}
	if !s.UpdatedAt.Equal(t0.Add(3 * time.Second)) {
		t.Errorf("updated at = %v", s.UpdatedAt)
	}
}

func TestPerformanceMetricsApply(t *testing.T) {
	tests := []struct {
		name    string
		actions []string
		want    PerformanceMetrics
	}{
		{
			name:    "clicks without views keep click-through at zero",
			actions: []string{ActionHotelViewed},
			want:    PerformanceMetrics{TotalClicks: 1},
		},
		{
			name:    "bookings without clicks keep conversion at zero",
			actions: []string{ActionBookingInitiated},
			want:    PerformanceMetrics{TotalBookings: 1},
		},
		{
			name:    "likes and dislikes",
			actions: []string{ActionHotelLiked, ActionHotelDisliked, ActionHotelDisliked, ActionHotelDisliked},
			want:    PerformanceMetrics{EngagementScore: -0.5},
		},
		{
			name:    "unknown action",
			actions: []string{"wishlist_added"},
			want:    PerformanceMetrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m PerformanceMetrics
			for _, a := range tt.actions {
				m.Apply(a)
			}
			if m != tt.want {
				t.Errorf("got %+v, want %+v", m, tt.want)
			}
		})
	}
}

func TestSessionTrack_UnknownActionIsLogged(t *testing.T) {
	s := &Session{CreatedAt: t0}
	got := s.Track("wishlist_added", nil, t0, "")

	if got != (PerformanceMetrics{}) {
		t.Errorf("metrics changed: %+v", got)
	}
	if len(s.Interactions) != 1 || s.Interactions[0].Action != "wishlist_added" {
		t.Errorf("interaction not appended: %+v", s.Interactions)
	}
}

func TestSessionTrack_Concurrent(t *testing.T) {
	s := &Session{CreatedAt: t0}

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.Track(ActionRecommendationsViewed, nil, t0, "web")
				s.Track(ActionHotelViewed, nil, t0, "web")
			}
		}()
	}
	wg.Wait()

	n := workers * perWorker
	if s.Metrics.TotalViews != n || s.Metrics.TotalClicks != n {
		t.Errorf("metrics = %+v, want %d views and clicks", *s.Metrics, n)
	}
	if s.Metrics.ClickThroughRate != 1 {
		t.Errorf("click-through = %v, want 1", s.Metrics.ClickThroughRate)
	}
	if len(s.Interactions) != 2*n {
		t.Errorf("interactions = %d, want %d", len(s.Interactions), 2*n)
	}
}

func TestInteractionAccessors(t *testing.T) {
	in := Interaction{Data: map[string]interface{}{"hotel_id": "h9", "score": 0.7}}
	if in.HotelID() != "h9" {
		t.Errorf("hotel id = %q", in.HotelID())
	}
	if v, ok := in.Score(); !ok || v != 0.7 {
		t.Errorf("score = %v, %v", v, ok)
	}

	empty := Interaction{}
	if empty.HotelID() != "" {
		t.Errorf("expected empty hotel id")
	}
	if _, ok := empty.Score(); ok {
		t.Errorf("expected no score")
	}
}
