package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotelchain/internal/dto"
	"hotelchain/internal/pricing"
	"hotelchain/internal/recommend"
	"hotelchain/internal/repository"
	"hotelchain/internal/service"
	"hotelchain/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubPricing struct {
	err      error
	roomType string
	from, to time.Time
	demand   *dto.UpdateDemandRequest
}

func (s *stubPricing) Quote(c pricing.Context) (*dto.PricingResponse, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &dto.PricingResponse{Currency: "₹", Pricing: &pricing.Result{FinalPrice: c.BasePrice}}, nil
}

func (s *stubPricing) Current(_ context.Context, hotelID uuid.UUID, roomType string) (*dto.PricingResponse, error) {
	s.roomType = roomType
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PricingResponse{HotelID: hotelID.String(), RoomType: roomType, Pricing: &pricing.Result{FinalPrice: 12000}}, nil
}

func (s *stubPricing) UpdateDemand(_ context.Context, hotelID uuid.UUID, roomType string, req *dto.UpdateDemandRequest) (*dto.PricingResponse, error) {
	s.demand = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PricingResponse{HotelID: hotelID.String(), RoomType: roomType}, nil
}

func (s *stubPricing) Range(_ context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) (*dto.PricingRangeResponse, error) {
	s.from, s.to = from, to
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PricingRangeResponse{HotelID: hotelID.String(), RoomType: roomType, From: from, To: to, Entries: []dto.PricingRangeEntry{}}, nil
}

func (s *stubPricing) Competitors(_ context.Context, location, roomType string) (*dto.CompetitorResponse, error) {
	return &dto.CompetitorResponse{Analysis: nil}, s.err
}

type stubRecommendations struct {
	err    error
	device string
	filter repository.SessionFilter
	userID string
}

func (s *stubRecommendations) Generate(_ context.Context, req *dto.GenerateRecommendationsRequest) (*dto.GenerateRecommendationsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.GenerateRecommendationsResponse{SessionID: "s1", Recommendations: []recommend.Result{}}, nil
}

func (s *stubRecommendations) Track(_ context.Context, req *dto.TrackInteractionRequest, device string) (*dto.TrackInteractionResponse, error) {
	s.device = device
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TrackInteractionResponse{Message: "Interaction tracked successfully"}, nil
}

func (s *stubRecommendations) Trending(_ context.Context, location, timeframe string) (*dto.TrendingResponse, error) {
	return &dto.TrendingResponse{Timeframe: timeframe, Trending: []dto.TrendingHotelResponse{}}, s.err
}

func (s *stubRecommendations) HotelInsights(_ context.Context, hotelID uuid.UUID, userID string) (*dto.HotelInsightsResponse, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.HotelInsightsResponse{}, nil
}

func (s *stubRecommendations) Analytics(_ context.Context, f repository.SessionFilter) (*dto.AnalyticsResponse, error) {
	s.filter = f
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AnalyticsResponse{}, nil
}

func newTestApp(p *stubPricing, r *stubRecommendations) *fiber.App {
	ph := NewPricingHandler(p, zap.NewNop())
	rh := NewRecommendationHandler(r, zap.NewNop())

	app := fiber.New()
	app.Post("/pricing/quote", ph.Quote)
	app.Get("/pricing/competitors", ph.Competitors)
	app.Get("/pricing/:hotelId/:roomType", ph.Current)
	app.Get("/pricing/:hotelId/:roomType/range", ph.Range)
	app.Put("/pricing/:hotelId/:roomType/demand", ph.UpdateDemand)
	app.Post("/recommendations/generate", rh.Generate)
	app.Post("/recommendations/track", rh.Track)
	app.Get("/recommendations/trending", rh.Trending)
	app.Get("/recommendations/hotel/:hotelId/insights", rh.HotelInsights)
	app.Get("/recommendations/analytics", rh.Analytics)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestPricingHandler(t *testing.T) {
	hotelID := uuid.New().String()

	tests := []struct {
		name       string
		err        error
		method     string
		path       string
		body       string
		wantStatus int
		wantDetail bool
	}{
		{name: "quote", method: http.MethodPost, path: "/pricing/quote",
			body:       `{"pricing_context":{"base_price":9000,"seasonal_factors":{"season_multiplier":1,"weather_impact":{"multiplier":1},"holiday_period":{"multiplier":1}},"time_factors":{"last_minute":{"multiplier":1}},"pricing_rules":{"max_increase_percent":50,"max_decrease_percent":30,"price_change_frequency_minutes":60}}}`,
			wantStatus: http.StatusOK},
		{name: "quote invalid context", method: http.MethodPost, path: "/pricing/quote",
			body: `{"pricing_context":{"base_price":-5}}`, wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "quote malformed body", method: http.MethodPost, path: "/pricing/quote", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "current", method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe", wantStatus: http.StatusOK},
		{name: "current bad hotel id", method: http.MethodGet, path: "/pricing/nope/deluxe", wantStatus: http.StatusBadRequest},
		{name: "current not found", err: service.ErrPricingNotFound, method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe", wantStatus: http.StatusNotFound},
		{name: "current storage failure", err: errors.New("db down"), method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe", wantStatus: http.StatusInternalServerError},
		{name: "range", method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe/range?from=2026-05-01&to=2026-05-07", wantStatus: http.StatusOK},
		{name: "range bad date", method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe/range?from=yesterday&to=2026-05-07", wantStatus: http.StatusBadRequest},
		{name: "range inverted", err: service.ErrInvalidRange, method: http.MethodGet, path: "/pricing/" + hotelID + "/deluxe/range?from=2026-05-07&to=2026-05-01", wantStatus: http.StatusBadRequest},
		{name: "competitors", method: http.MethodGet, path: "/pricing/competitors?location=Goa&room_type=deluxe", wantStatus: http.StatusOK},
		{name: "competitors needs location", method: http.MethodGet, path: "/pricing/competitors", wantStatus: http.StatusBadRequest},
		{name: "demand", method: http.MethodPut, path: "/pricing/" + hotelID + "/deluxe/demand",
			body: `{"occupancy_rate":0.85,"booking_velocity":4,"search_volume":120}`, wantStatus: http.StatusOK},
		{name: "demand out of range", method: http.MethodPut, path: "/pricing/" + hotelID + "/deluxe/demand",
			body: `{"occupancy_rate":1.4}`, wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "demand not found", err: service.ErrPricingNotFound, method: http.MethodPut, path: "/pricing/" + hotelID + "/deluxe/demand",
			body: `{"occupancy_rate":0.5}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubPricing{err: tt.err}, &stubRecommendations{})

			status, body := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.wantStatus, body)
			}
			if _, ok := body["details"]; ok != tt.wantDetail {
				t.Errorf("details present = %v, want %v (body %v)", ok, tt.wantDetail, body)
			}
		})
	}
}

func TestPricingHandler_RangeParsesDates(t *testing.T) {
	p := &stubPricing{}
	app := newTestApp(p, &stubRecommendations{})

	path := fmt.Sprintf("/pricing/%s/deluxe/range?from=2026-05-01&to=2026-05-07T18:30:00Z", uuid.New())
	if status, body := do(t, app, http.MethodGet, path, ""); status != http.StatusOK {
		t.Fatalf("status = %d (body %v)", status, body)
	}

	if want := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC); !p.from.Equal(want) {
		t.Errorf("from = %v, want %v", p.from, want)
	}
	if want := time.Date(2026, 5, 7, 18, 30, 0, 0, time.UTC); !p.to.Equal(want) {
		t.Errorf("to = %v, want %v", p.to, want)
	}
}

func TestRecommendationHandler(t *testing.T) {
	userID := uuid.New().String()
	sessionID := uuid.New().String()
	hotelID := uuid.New().String()

	tests := []struct {
		name       string
		err        error
		method     string
		path       string
		body       string
		wantStatus int
		wantDetail bool
	}{
		{name: "generate", method: http.MethodPost, path: "/recommendations/generate",
			body:       `{"user_id":"` + userID + `","session_id":"abc","search_criteria":{"destination":"Goa"}}`,
			wantStatus: http.StatusOK},
		{name: "generate missing user", method: http.MethodPost, path: "/recommendations/generate",
			body: `{"session_id":"abc"}`, wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "generate unknown category", method: http.MethodPost, path: "/recommendations/generate",
			body:       `{"user_id":"` + userID + `","session_id":"abc","filters":{"category":"cheapest"}}`,
			wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "generate negative budget", method: http.MethodPost, path: "/recommendations/generate",
			body:       `{"user_id":"` + userID + `","session_id":"abc","preferences":{"budget":{"min":-1,"max":100}}}`,
			wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "generate failure", err: errors.New("db down"), method: http.MethodPost, path: "/recommendations/generate",
			body:       `{"user_id":"` + userID + `","session_id":"abc"}`,
			wantStatus: http.StatusInternalServerError},
		{name: "track", method: http.MethodPost, path: "/recommendations/track",
			body:       `{"user_id":"` + userID + `","session_id":"` + sessionID + `","action":"hotel_viewed","data":{"hotelId":"` + hotelID + `"}}`,
			wantStatus: http.StatusOK},
		{name: "track unknown session", err: service.ErrSessionNotFound, method: http.MethodPost, path: "/recommendations/track",
			body:       `{"user_id":"` + userID + `","session_id":"` + sessionID + `","action":"hotel_viewed"}`,
			wantStatus: http.StatusNotFound},
		{name: "track missing action", method: http.MethodPost, path: "/recommendations/track",
			body:       `{"user_id":"` + userID + `","session_id":"` + sessionID + `"}`,
			wantStatus: http.StatusBadRequest, wantDetail: true},
		{name: "trending", method: http.MethodGet, path: "/recommendations/trending?location=Goa&timeframe=1d", wantStatus: http.StatusOK},
		{name: "insights", method: http.MethodGet, path: "/recommendations/hotel/" + hotelID + "/insights?user_id=" + userID, wantStatus: http.StatusOK},
		{name: "insights bad id", method: http.MethodGet, path: "/recommendations/hotel/x/insights", wantStatus: http.StatusBadRequest},
		{name: "insights unknown hotel", err: service.ErrHotelNotFound, method: http.MethodGet, path: "/recommendations/hotel/" + hotelID + "/insights", wantStatus: http.StatusNotFound},
		{name: "analytics", method: http.MethodGet, path: "/recommendations/analytics?start_date=2026-01-01&end_date=2026-02-01", wantStatus: http.StatusOK},
		{name: "analytics bad date", method: http.MethodGet, path: "/recommendations/analytics?start_date=soon", wantStatus: http.StatusBadRequest},
		{name: "analytics inverted", err: service.ErrInvalidRange, method: http.MethodGet, path: "/recommendations/analytics?start_date=2026-02-01&end_date=2026-01-01", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubPricing{}, &stubRecommendations{err: tt.err})

			status, body := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %v)", status, tt.wantStatus, body)
			}
			if _, ok := body["details"]; ok != tt.wantDetail {
				t.Errorf("details present = %v, want %v (body %v)", ok, tt.wantDetail, body)
			}
		})
	}
}

func TestRecommendationHandler_TrackDevice(t *testing.T) {
	body := fmt.Sprintf(`{"user_id":"u1","session_id":"%s","action":"hotel_liked"}`, uuid.New())

	for ua, want := range map[string]string{"": "unknown", "Mozilla/5.0": "web"} {
		r := &stubRecommendations{}
		app := newTestApp(&stubPricing{}, r)

		if status, resp := do(t, app, http.MethodPost, "/recommendations/track", body, "User-Agent", ua); status != http.StatusOK {
			t.Fatalf("status = %d (body %v)", status, resp)
		}
		if r.device != want {
			t.Errorf("user agent %q: device = %q, want %q", ua, r.device, want)
		}
	}
}

func TestRecommendationHandler_AnalyticsFilter(t *testing.T) {
	r := &stubRecommendations{}
	app := newTestApp(&stubPricing{}, r)

	if status, body := do(t, app, http.MethodGet, "/recommendations/analytics?user_id=u7&end_date=2026-02-01", ""); status != http.StatusOK {
		t.Fatalf("status = %d (body %v)", status, body)
	}
	if r.filter.UserID != "u7" || r.filter.From != nil || r.filter.To == nil {
		t.Errorf("filter = %+v", r.filter)
	}
}

func TestValidationFailedDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		verr := &validation.Error{}
		verr.Add("budget.max", "gtefield", "budget.max must be at least budget.min")
		return validationFailed(c, fmt.Errorf("%w: %w", pricing.ErrInvalidContext, verr))
	})

	status, body := do(t, app, http.MethodGet, "/", "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	details, ok := body["details"].([]interface{})
	if !ok || len(details) != 1 {
		t.Fatalf("details = %v", body["details"])
	}
	if field := details[0].(map[string]interface{})["field"]; field != "budget.max" {
		t.Errorf("field = %v", field)
	}
}

func TestPricingHandler_QuoteAppliesDefaults(t *testing.T) {
	svc := service.NewPricingService(nil, nil, pricing.NewEngine(), "₹", zap.NewNop())
	app := fiber.New()
	app.Post("/pricing/quote", NewPricingHandler(svc, zap.NewNop()).Quote)

	tests := []struct {
		name           string
		body           string
		wantPrice      float64
		wantMultiplier float64
	}{
		{name: "only base price and occupancy",
			body:      `{"pricing_context":{"base_price":10000,"demand_factors":{"occupancy_rate":0.9}}}`,
			wantPrice: 13000, wantMultiplier: 1.3},
		{name: "partial rules keep default percents",
			body:      `{"pricing_context":{"base_price":10000,"demand_factors":{"occupancy_rate":0.9},"pricing_rules":{"price_change_frequency_minutes":60}}}`,
			wantPrice: 13000, wantMultiplier: 1.3},
		{name: "explicit increase cap",
			body:      `{"pricing_context":{"base_price":10000,"demand_factors":{"occupancy_rate":0.9},"pricing_rules":{"max_increase_percent":10}}}`,
			wantPrice: 11000, wantMultiplier: 1.1},
		{name: "low occupancy",
			body:      `{"pricing_context":{"base_price":10000,"demand_factors":{"occupancy_rate":0.1}}}`,
			wantPrice: 8000, wantMultiplier: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, "/pricing/quote", tt.body)
			if status != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %v)", status, body)
			}
			res, ok := body["pricing"].(map[string]interface{})
			if !ok {
				t.Fatalf("pricing missing from %v", body)
			}
			if got := res["final_price"].(float64); got != tt.wantPrice {
				t.Errorf("final_price = %v, want %v", got, tt.wantPrice)
			}
			if got := res["total_multiplier"].(float64); got < tt.wantMultiplier-1e-9 || got > tt.wantMultiplier+1e-9 {
				t.Errorf("total_multiplier = %v, want %v", got, tt.wantMultiplier)
			}
		})
	}
}
