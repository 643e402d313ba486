package service

import (
	"context"
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
	"hotelchain/internal/recommend"
	"hotelchain/internal/repository"

	"github.com/google/uuid"
)

// Storage dependencies of the services. The repository package provides the
// PostgreSQL implementations.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type HotelStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	SearchActive(ctx context.Context, destination string) ([]*models.Hotel, error)
	ListSimilar(ctx context.Context, city string, exclude uuid.UUID, limit int) ([]*models.Hotel, error)
}

type BookingStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID, statuses []models.BookingStatus) ([]recommend.PastBooking, error)
}

type PricingStore interface {
	Get(ctx context.Context, hotelID uuid.UUID, roomType string) (*models.DynamicPricing, error)
	GetFirstForHotel(ctx context.Context, hotelID uuid.UUID) (*models.DynamicPricing, error)
	SaveCurrentPricing(ctx context.Context, id uuid.UUID, res *pricing.Result) error
	UpdateDemand(ctx context.Context, id uuid.UUID, demand pricing.DemandFactors) error
	ListForDateRange(ctx context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) ([]*models.DynamicPricing, error)
	CompetitorAnalysis(ctx context.Context, location, roomType string) (*models.CompetitorAnalysis, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *recommend.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*recommend.Session, error)
	ListRecentWithInteractions(ctx context.Context, userID string, limit int) ([]*recommend.Session, error)
	ListSince(ctx context.Context, since time.Time, destination string) ([]*recommend.Session, error)
	ListForAnalytics(ctx context.Context, f repository.SessionFilter) ([]*recommend.Session, error)
	Track(ctx context.Context, id uuid.UUID, fn func(*recommend.Session) error) (*recommend.Session, error)
}

type PricingCache interface {
	Get(ctx context.Context, hotelID, roomType string) (*pricing.Result, error)
	Set(ctx context.Context, hotelID, roomType string, res *pricing.Result) error
	Invalidate(ctx context.Context, hotelID, roomType string) error
}

var (
	_ UserStore    = (*repository.UserRepository)(nil)
	_ HotelStore   = (*repository.HotelRepository)(nil)
	_ BookingStore = (*repository.BookingRepository)(nil)
	_ PricingStore = (*repository.PricingRepository)(nil)
	_ SessionStore = (*repository.SessionRepository)(nil)
)
