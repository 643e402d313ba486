package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
	"hotelchain/internal/recommend"
	"hotelchain/internal/repository"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*models.User
	email map[string]uuid.UUID
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*models.User{}, email: map[string]uuid.UUID{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.email[u.Email] = u.ID
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.email[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.byID[id], nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type fakeHotels struct {
	hotels []*models.Hotel
}

func (f *fakeHotels) GetByID(_ context.Context, id uuid.UUID) (*models.Hotel, error) {
	for _, h := range f.hotels {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHotels) SearchActive(_ context.Context, destination string) ([]*models.Hotel, error) {
	var out []*models.Hotel
	for _, h := range f.hotels {
		if h.Status == models.HotelStatusActive && strings.Contains(strings.ToLower(h.City), strings.ToLower(destination)) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHotels) ListSimilar(_ context.Context, city string, exclude uuid.UUID, limit int) ([]*models.Hotel, error) {
	var out []*models.Hotel
	for _, h := range f.hotels {
		if h.Status == models.HotelStatusActive && h.City == city && h.ID != exclude && len(out) < limit {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeBookings struct {
	byUser map[uuid.UUID][]recommend.PastBooking
}

func (f *fakeBookings) ListForUser(_ context.Context, userID uuid.UUID, _ []models.BookingStatus) ([]recommend.PastBooking, error) {
	return f.byUser[userID], nil
}

type fakePricingStore struct {
	mu      sync.Mutex
	records []*models.DynamicPricing
	saves   int
	demands []pricing.DemandFactors
	failFor map[uuid.UUID]bool
}

func (f *fakePricingStore) Get(_ context.Context, hotelID uuid.UUID, roomType string) (*models.DynamicPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.HotelID == hotelID && r.RoomType == roomType {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePricingStore) GetFirstForHotel(_ context.Context, hotelID uuid.UUID) (*models.DynamicPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[hotelID] {
		return nil, errors.New("connection reset")
	}
	for _, r := range f.records {
		if r.HotelID == hotelID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePricingStore) SaveCurrentPricing(_ context.Context, id uuid.UUID, res *pricing.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			r.Current = res
			f.saves++
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakePricingStore) UpdateDemand(_ context.Context, id uuid.UUID, demand pricing.DemandFactors) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			r.Context.Demand = demand
			r.Current = nil
			f.demands = append(f.demands, demand)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakePricingStore) ListForDateRange(_ context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) ([]*models.DynamicPricing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.DynamicPricing
	for _, r := range f.records {
		if r.HotelID != hotelID || r.RoomType != roomType {
			continue
		}
		if r.Current != nil && (r.Current.ValidFrom.After(to) || r.Current.ValidUntil.Before(from)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakePricingStore) CompetitorAnalysis(_ context.Context, location, roomType string) (*models.CompetitorAnalysis, error) {
	return &models.CompetitorAnalysis{Location: location, RoomType: roomType}, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*pricing.Result
	dropped []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*pricing.Result{}}
}

func (f *fakeCache) Get(_ context.Context, hotelID, roomType string) (*pricing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[hotelID+"/"+roomType], nil
}

func (f *fakeCache) Set(_ context.Context, hotelID, roomType string, res *pricing.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[hotelID+"/"+roomType] = res
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, hotelID, roomType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, hotelID+"/"+roomType)
	f.dropped = append(f.dropped, hotelID+"/"+roomType)
	return nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions []*recommend.Session
	filter   repository.SessionFilter
}

func (f *fakeSessions) Create(_ context.Context, s *recommend.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeSessions) GetByID(_ context.Context, id uuid.UUID) (*recommend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id.String() {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSessions) ListRecentWithInteractions(_ context.Context, userID string, limit int) ([]*recommend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*recommend.Session
	for _, s := range f.sessions {
		if s.UserID == userID && len(s.Interactions) > 0 && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) ListSince(_ context.Context, since time.Time, _ string) ([]*recommend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*recommend.Session
	for _, s := range f.sessions {
		if !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) ListForAnalytics(_ context.Context, filter repository.SessionFilter) ([]*recommend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	return append([]*recommend.Session(nil), f.sessions...), nil
}

func (f *fakeSessions) Track(ctx context.Context, id uuid.UUID, fn func(*recommend.Session) error) (*recommend.Session, error) {
	s, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	return s, nil
}
