package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelchain/internal/dto"
	"hotelchain/internal/models"
	"hotelchain/internal/pricing"
	"hotelchain/internal/repository"
	"hotelchain/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PricingService struct {
	store    PricingStore
	cache    PricingCache
	engine   *pricing.Engine
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPricingService wires the pricing engine to storage. cache may be nil.
func NewPricingService(store PricingStore, cache PricingCache, engine *pricing.Engine, currency string, logger *zap.Logger) *PricingService {
	return &PricingService{
		store:    store,
		cache:    cache,
		engine:   engine,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// Quote prices a caller supplied context. Nothing is read or stored.
func (s *PricingService) Quote(c pricing.Context) (*dto.PricingResponse, error) {
	res, err := s.engine.Calculate(c)
	metrics.RecordPricing(res.TotalMultiplier, err)
	if err != nil {
		return nil, err
	}
	return &dto.PricingResponse{Currency: s.currency, Pricing: &res}, nil
}

// Current returns the price of a hotel room type, reusing the cached or
// stored result while it is still valid.
func (s *PricingService) Current(ctx context.Context, hotelID uuid.UUID, roomType string) (*dto.PricingResponse, error) {
	record, err := s.store.Get(ctx, hotelID, roomType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPricingNotFound
		}
		return nil, fmt.Errorf("failed to load pricing: %w", err)
	}

	res, err := s.current(ctx, record)
	if err != nil {
		return nil, err
	}

	return &dto.PricingResponse{
		HotelID:  hotelID.String(),
		RoomType: record.RoomType,
		Currency: s.currency,
		Pricing:  res,
	}, nil
}

// CurrentForHotel prices the hotel's first active pricing record. A hotel
// without one has no dynamic price, which is reported as (nil, nil).
func (s *PricingService) CurrentForHotel(ctx context.Context, hotelID uuid.UUID) (*pricing.Result, error) {
	record, err := s.store.GetFirstForHotel(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load pricing: %w", err)
	}
	return s.current(ctx, record)
}

func (s *PricingService) current(ctx context.Context, record *models.DynamicPricing) (*pricing.Result, error) {
	hotelID := record.HotelID.String()
	now := s.now()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, hotelID, record.RoomType)
		if err != nil {
			s.logger.Warn("Pricing cache lookup failed", zap.String("hotel_id", hotelID), zap.Error(err))
		}
		if cached != nil && cached.ValidAt(now) {
			return cached, nil
		}
	}

	if record.Current != nil && record.Current.ValidAt(now) {
		s.remember(ctx, hotelID, record.RoomType, record.Current)
		return record.Current, nil
	}

	return s.recalculate(ctx, record)
}

func (s *PricingService) recalculate(ctx context.Context, record *models.DynamicPricing) (*pricing.Result, error) {
	res, err := s.engine.Calculate(record.Context)
	metrics.RecordPricing(res.TotalMultiplier, err)
	if err != nil {
		return nil, fmt.Errorf("hotel %s room %s: %w", record.HotelID, record.RoomType, err)
	}

	if err := s.store.SaveCurrentPricing(ctx, record.ID, &res); err != nil {
		return nil, fmt.Errorf("failed to save pricing: %w", err)
	}
	s.remember(ctx, record.HotelID.String(), record.RoomType, &res)

	s.logger.Debug("Pricing recalculated",
		zap.String("hotel_id", record.HotelID.String()),
		zap.String("room_type", record.RoomType),
		zap.Float64("final_price", res.FinalPrice),
	)
	return &res, nil
}

func (s *PricingService) remember(ctx context.Context, hotelID, roomType string, res *pricing.Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, hotelID, roomType, res); err != nil {
		s.logger.Warn("Pricing cache store failed", zap.String("hotel_id", hotelID), zap.Error(err))
	}
}

// UpdateDemand replaces the observed demand signals of a record, derives the
// market demand from them and reprices immediately.
func (s *PricingService) UpdateDemand(ctx context.Context, hotelID uuid.UUID, roomType string, req *dto.UpdateDemandRequest) (*dto.PricingResponse, error) {
	record, err := s.store.Get(ctx, hotelID, roomType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPricingNotFound
		}
		return nil, fmt.Errorf("failed to load pricing: %w", err)
	}

	demand := pricing.DemandFactors{
		OccupancyRate:   req.OccupancyRate,
		BookingVelocity: req.BookingVelocity,
		SearchVolume:    req.SearchVolume,
	}
	demand.MarketDemand = pricing.ComputeMarketDemand(demand)

	record.Context.Demand = demand
	if err := record.Context.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateDemand(ctx, record.ID, demand); err != nil {
		return nil, fmt.Errorf("failed to update demand: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, hotelID.String(), record.RoomType); err != nil {
			s.logger.Warn("Pricing cache invalidation failed", zap.String("hotel_id", hotelID.String()), zap.Error(err))
		}
	}
	record.Current = nil

	res, err := s.recalculate(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Demand updated",
		zap.String("hotel_id", hotelID.String()),
		zap.String("room_type", record.RoomType),
		zap.Float64("market_demand", demand.MarketDemand),
	)

	return &dto.PricingResponse{
		HotelID:  hotelID.String(),
		RoomType: record.RoomType,
		Currency: s.currency,
		Pricing:  res,
	}, nil
}

// Range lists stored prices whose validity window overlaps [from, to].
func (s *PricingService) Range(ctx context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) (*dto.PricingRangeResponse, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	records, err := s.store.ListForDateRange(ctx, hotelID, roomType, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}

	entries := make([]dto.PricingRangeEntry, 0, len(records))
	for _, r := range records {
		if r.Current == nil {
			continue
		}
		entries = append(entries, dto.PricingRangeEntry{
			FinalPrice: r.Current.FinalPrice,
			ValidFrom:  r.Current.ValidFrom,
			ValidUntil: r.Current.ValidUntil,
		})
	}

	return &dto.PricingRangeResponse{
		HotelID:  hotelID.String(),
		RoomType: roomType,
		From:     from,
		To:       to,
		Entries:  entries,
	}, nil
}

// Competitors aggregates current prices of a room type across hotels in a
// location.
func (s *PricingService) Competitors(ctx context.Context, location, roomType string) (*dto.CompetitorResponse, error) {
	location = sanitizeUTF8(location)
	roomType = strings.TrimSpace(roomType)

	analysis, err := s.store.CompetitorAnalysis(ctx, location, roomType)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze competitors: %w", err)
	}
	return &dto.CompetitorResponse{Currency: s.currency, Analysis: analysis}, nil
}
