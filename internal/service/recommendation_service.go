package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hotelchain/internal/dto"
	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
	"hotelchain/internal/recommend"
	"hotelchain/internal/repository"
	"hotelchain/pkg/config"
	"hotelchain/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const similarHotelsLimit = 3

// HotelPricer resolves the current dynamic price of a hotel. A nil result
// with a nil error means the hotel has no pricing record.
type HotelPricer interface {
	CurrentForHotel(ctx context.Context, hotelID uuid.UUID) (*pricing.Result, error)
}

type RecommendationService struct {
	hotels   HotelStore
	bookings BookingStore
	sessions SessionStore
	pricer   HotelPricer
	scorer   *recommend.Scorer
	cfg      config.RecommendConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewRecommendationService(
	hotels HotelStore,
	bookings BookingStore,
	sessions SessionStore,
	pricer HotelPricer,
	scorer *recommend.Scorer,
	cfg config.RecommendConfig,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		hotels:   hotels,
		bookings: bookings,
		sessions: sessions,
		pricer:   pricer,
		scorer:   scorer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate ranks active hotels in the requested destination for a user and
// stores the outcome as a new recommendation session.
func (s *RecommendationService) Generate(ctx context.Context, req *dto.GenerateRecommendationsRequest) (*dto.GenerateRecommendationsResponse, error) {
	started := s.now()

	// 1. Build the user profile from bookings and recent sessions
	profile, err := s.profile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// 2. Load candidate hotels
	criteria := req.SearchCriteria
	criteria.Destination = sanitizeUTF8(criteria.Destination)

	hotels, err := s.hotels.SearchActive(ctx, criteria.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}

	candidates := make([]*recommend.Hotel, 0, len(hotels))
	for _, h := range hotels {
		c := candidate(h)
		if criteria.CheckIn != nil && criteria.CheckOut != nil && !c.HasAvailability() {
			continue
		}
		candidates = append(candidates, c)
	}

	// 3. Score and keep the decent matches
	type scored struct {
		hotel *recommend.Hotel
		score recommend.AIScore
	}
	var matches []scored
	for _, c := range candidates {
		score, err := s.scorer.CalculateAIScore(c, &profile, req.Preferences, &criteria)
		if err != nil {
			return nil, err
		}
		if score.Score > s.cfg.MinScore {
			matches = append(matches, scored{hotel: c, score: score})
		}
	}

	// 4. Price the matches concurrently; a hotel that cannot be priced is skipped
	prices := make([]*pricing.Result, len(matches))
	failed := make([]bool, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.PricingConcurrency))
	for i, m := range matches {
		i, m := i, m
		g.Go(func() error {
			id, err := uuid.Parse(m.hotel.ID)
			if err != nil {
				failed[i] = true
				return nil
			}
			res, err := s.pricer.CurrentForHotel(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Warn("Skipping hotel without price",
					zap.String("hotel_id", m.hotel.ID),
					zap.Error(err),
				)
				failed[i] = true
				return nil
			}
			prices[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 5. Assemble results
	generatedAt := s.now()
	results := make([]recommend.Result, 0, len(matches))
	skipped := 0
	for i, m := range matches {
		if failed[i] {
			skipped++
			continue
		}
		results = append(results, s.result(m.hotel, m.score, prices[i], &profile, generatedAt))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	filtered := results
	if c := req.Filters.Category; c != "" && c != "all" {
		filtered = make([]recommend.Result, 0, len(results))
		for _, r := range results {
			if string(r.Category) == c {
				filtered = append(filtered, r)
			}
		}
	}

	insights := recommend.GenerateInsights(&profile, results)

	// 6. Save the session
	session := &recommend.Session{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		SessionID:       sanitizeUTF8(req.SessionID),
		SearchCriteria:  criteria,
		Preferences:     req.Preferences,
		Profile:         profile,
		Recommendations: head(filtered, s.cfg.MaxStored),
		Insights:        insights,
		Interactions:    []recommend.Interaction{},
		GeneratedAt:     generatedAt,
		CreatedAt:       generatedAt,
		UpdatedAt:       generatedAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save recommendation session: %w", err)
	}

	metrics.RecordGenerate(s.now().Sub(started), skipped)
	s.logger.Info("Recommendations generated",
		zap.String("session_id", session.ID),
		zap.String("user_id", req.UserID),
		zap.Int("candidates", len(candidates)),
		zap.Int("count", len(filtered)),
		zap.Int("skipped", skipped),
	)

	return &dto.GenerateRecommendationsResponse{
		SessionID:       session.ID,
		Recommendations: head(filtered, s.cfg.MaxReturned),
		Insights:        insights,
	}, nil
}

func (s *RecommendationService) result(h *recommend.Hotel, score recommend.AIScore, dp *pricing.Result, profile *recommend.UserProfile, at time.Time) recommend.Result {
	image := "/default-hotel.jpg"
	if len(h.Images) > 0 {
		image = h.Images[0]
	}
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return recommend.Result{
		HotelID:        h.ID,
		Name:           h.Name,
		Location:       h.City + ", " + h.State,
		Rating:         h.Rating,
		Image:          image,
		Amenities:      amenities,
		Score:          score.Score,
		Confidence:     score.Confidence,
		Reasons:        s.scorer.GenerateReasons(score, h, profile, dp),
		Category:       s.scorer.DetermineCategory(score, dp, profile),
		DynamicPricing: dp,
		Availability:   recommend.AvailabilityInfo(h),
		Popularity:     h.TotalBookings,
		GeneratedAt:    at,
	}
}

func (s *RecommendationService) profile(ctx context.Context, userID string) (recommend.UserProfile, error) {
	var bookings []recommend.PastBooking
	if uid, err := uuid.Parse(userID); err == nil {
		bookings, err = s.bookings.ListForUser(ctx, uid, models.ProfileStatuses)
		if err != nil {
			return recommend.UserProfile{}, fmt.Errorf("failed to load bookings: %w", err)
		}
	}

	history, err := s.sessions.ListRecentWithInteractions(ctx, userID, s.cfg.HistorySessions)
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("failed to load sessions: %w", err)
	}

	return recommend.BuildUserProfile(userID, bookings, history), nil
}

// Track records one user interaction against a stored session and returns
// the updated performance metrics.
func (s *RecommendationService) Track(ctx context.Context, req *dto.TrackInteractionRequest, device string) (*dto.TrackInteractionResponse, error) {
	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	at := s.now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	var data map[string]interface{}
	if req.Data != nil {
		data, _ = sanitizeData(req.Data).(map[string]interface{})
	}
	action := sanitizeUTF8(req.Action)

	var updated recommend.PerformanceMetrics
	_, err = s.sessions.Track(ctx, id, func(session *recommend.Session) error {
		updated = session.Track(action, data, at, device)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to track interaction: %w", err)
	}

	metrics.RecordInteraction(action)
	s.logger.Debug("Interaction tracked",
		zap.String("session_id", req.SessionID),
		zap.String("user_id", req.UserID),
		zap.String("action", action),
	)

	return &dto.TrackInteractionResponse{
		Message: "Interaction tracked successfully",
		Metrics: updated,
	}, nil
}

// Trending ranks hotels by recent interactions in sessions for a location.
func (s *RecommendationService) Trending(ctx context.Context, location, timeframe string) (*dto.TrendingResponse, error) {
	timeframe = recommend.NormalizeTimeframe(timeframe)
	location = sanitizeUTF8(location)
	now := s.now()

	sessions, err := s.sessions.ListSince(ctx, now.Add(-recommend.ParseTimeframe(timeframe)), location)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	ranked := recommend.TrendingHotels(sessions, timeframe, location, now, s.cfg.TrendingLimit)

	out := make([]dto.TrendingHotelResponse, 0, len(ranked))
	for _, t := range ranked {
		entry := dto.TrendingHotelResponse{TrendingHotel: t}
		if id, err := uuid.Parse(t.HotelID); err == nil {
			h, err := s.hotels.GetByID(ctx, id)
			switch {
			case err == nil:
				entry.Hotel = candidate(h)
			case !errors.Is(err, repository.ErrNotFound):
				return nil, fmt.Errorf("failed to load hotel: %w", err)
			}
		}
		out = append(out, entry)
	}

	return &dto.TrendingResponse{Timeframe: timeframe, Trending: out}, nil
}

// HotelInsights explains how one hotel fits a user.
func (s *RecommendationService) HotelInsights(ctx context.Context, hotelID uuid.UUID, userID string) (*dto.HotelInsightsResponse, error) {
	h, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to load hotel: %w", err)
	}
	hotel := candidate(h)

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	score, err := s.scorer.CalculateAIScore(hotel, &profile, nil, &recommend.SearchCriteria{})
	if err != nil {
		return nil, err
	}

	similar, err := s.hotels.ListSimilar(ctx, h.City, h.ID, similarHotelsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load similar hotels: %w", err)
	}

	at := s.now()
	similarResults := make([]recommend.Result, 0, len(similar))
	for _, sh := range similar {
		c := candidate(sh)
		sc, err := s.scorer.CalculateAIScore(c, &profile, nil, &recommend.SearchCriteria{})
		if err != nil {
			return nil, err
		}
		similarResults = append(similarResults, s.result(c, sc, nil, &profile, at))
	}

	return &dto.HotelInsightsResponse{
		Hotel: hotel,
		Insights: recommend.HotelInsights{
			PersonalizedScore: score,
			PriceComparison:   recommend.ComparePrice(hotel, &profile),
			Availability:      recommend.AvailabilityInfo(hotel),
			BestTimeToBook:    recommend.DefaultBestBookingTime,
			SimilarHotels:     similarResults,
		},
	}, nil
}

// Analytics summarizes sessions matching the filter.
func (s *RecommendationService) Analytics(ctx context.Context, f repository.SessionFilter) (*dto.AnalyticsResponse, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, ErrInvalidRange
	}

	sessions, err := s.sessions.ListForAnalytics(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return &dto.AnalyticsResponse{Analytics: recommend.Summarize(sessions)}, nil
}

func candidate(h *models.Hotel) *recommend.Hotel {
	rooms := make([]recommend.RoomType, len(h.RoomTypes))
	for i, rt := range h.RoomTypes {
		rooms[i] = recommend.RoomType{
			Type:       rt.Type,
			Price:      rt.Price,
			TotalRooms: rt.TotalRooms,
			Available:  rt.Available,
		}
	}
	return &recommend.Hotel{
		ID:            h.ID.String(),
		Name:          h.Name,
		City:          h.City,
		State:         h.State,
		Rating:        h.Rating,
		Amenities:     h.Amenities,
		Images:        h.Images,
		RoomTypes:     rooms,
		TotalBookings: h.TotalBookings,
	}
}

func head(results []recommend.Result, n int) []recommend.Result {
	if n >= 0 && len(results) > n {
		return results[:n]
	}
	return results
}
