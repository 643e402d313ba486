package repository

import (
	"context"
	"time"

	"hotelchain/internal/models"
	"hotelchain/internal/pricing"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var pricingColumns = []string{
	"id", "hotel_id", "room_type", "context", "current_pricing", "is_active", "created_at", "updated_at",
}

type PricingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPricingRepository(db *pgxpool.Pool, logger *zap.Logger) *PricingRepository {
	return &PricingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PricingRepository) Create(ctx context.Context, p *models.DynamicPricing) error {
	var finalPrice *float64
	var validFrom, validUntil *time.Time
	if p.Current != nil {
		finalPrice, validFrom, validUntil = &p.Current.FinalPrice, &p.Current.ValidFrom, &p.Current.ValidUntil
	}

	query := squirrel.Insert("dynamic_pricing").
		Columns(append(pricingColumns, "final_price", "valid_from", "valid_until")...).
		Values(p.ID, p.HotelID, p.RoomType, p.Context, p.Current, p.IsActive, p.CreatedAt, p.UpdatedAt,
			finalPrice, validFrom, validUntil).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Get returns the active pricing record of a hotel room type.
func (r *PricingRepository) Get(ctx context.Context, hotelID uuid.UUID, roomType string) (*models.DynamicPricing, error) {
	query := squirrel.Select(pricingColumns...).
		From("dynamic_pricing").
		Where(squirrel.Eq{"hotel_id": hotelID, "room_type": roomType, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar)

	return r.getOne(ctx, query)
}

// GetFirstForHotel returns the oldest active pricing record of a hotel.
func (r *PricingRepository) GetFirstForHotel(ctx context.Context, hotelID uuid.UUID) (*models.DynamicPricing, error) {
	query := squirrel.Select(pricingColumns...).
		From("dynamic_pricing").
		Where(squirrel.Eq{"hotel_id": hotelID, "is_active": true}).
		OrderBy("created_at ASC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	return r.getOne(ctx, query)
}

// SaveCurrentPricing stores a freshly calculated price on the record.
func (r *PricingRepository) SaveCurrentPricing(ctx context.Context, id uuid.UUID, res *pricing.Result) error {
	sql, args, err := saveCurrentQuery(id, res, time.Now()).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func saveCurrentQuery(id uuid.UUID, res *pricing.Result, now time.Time) squirrel.UpdateBuilder {
	return squirrel.Update("dynamic_pricing").
		Set("current_pricing", res).
		Set("final_price", res.FinalPrice).
		Set("valid_from", res.ValidFrom).
		Set("valid_until", res.ValidUntil).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
}

// UpdateDemand replaces the demand factors of the stored context and clears
// the current price so the next read recalculates it.
func (r *PricingRepository) UpdateDemand(ctx context.Context, id uuid.UUID, demand pricing.DemandFactors) error {
	sql, args, err := updateDemandQuery(id, demand, time.Now()).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("Demand factors updated",
		zap.String("pricing_id", id.String()),
		zap.Float64("occupancy_rate", demand.OccupancyRate),
		zap.Float64("market_demand", demand.MarketDemand),
	)
	return nil
}

func updateDemandQuery(id uuid.UUID, demand pricing.DemandFactors, now time.Time) squirrel.UpdateBuilder {
	return squirrel.Update("dynamic_pricing").
		Set("context", squirrel.Expr("jsonb_set(context, '{demand_factors}', ?::jsonb)", demand)).
		Set("current_pricing", nil).
		Set("final_price", nil).
		Set("valid_from", nil).
		Set("valid_until", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
}

// ListForDateRange returns active records whose current validity window
// overlaps [from, to], ordered by the start of the window.
func (r *PricingRepository) ListForDateRange(ctx context.Context, hotelID uuid.UUID, roomType string, from, to time.Time) ([]*models.DynamicPricing, error) {
	sql, args, err := dateRangeQuery(hotelID, roomType, from, to).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.DynamicPricing
	for rows.Next() {
		p, err := scanPricing(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}

	return records, rows.Err()
}

func dateRangeQuery(hotelID uuid.UUID, roomType string, from, to time.Time) squirrel.SelectBuilder {
	return squirrel.Select(pricingColumns...).
		From("dynamic_pricing").
		Where(squirrel.Eq{"hotel_id": hotelID, "room_type": roomType, "is_active": true}).
		Where(squirrel.LtOrEq{"valid_from": to}).
		Where(squirrel.GtOrEq{"valid_until": from}).
		OrderBy("valid_from ASC").
		PlaceholderFormat(squirrel.Dollar)
}

// CompetitorAnalysis aggregates the current prices of a room type across
// active hotels whose city contains location.
func (r *PricingRepository) CompetitorAnalysis(ctx context.Context, location, roomType string) (*models.CompetitorAnalysis, error) {
	sql, args, err := competitorQuery(location, roomType).ToSql()
	if err != nil {
		return nil, err
	}

	ca := &models.CompetitorAnalysis{Location: location, RoomType: roomType}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&ca.AvgPrice, &ca.MinPrice, &ca.MaxPrice, &ca.PriceCount); err != nil {
		return nil, err
	}
	return ca, nil
}

func competitorQuery(location, roomType string) squirrel.SelectBuilder {
	return squirrel.Select(
		"COALESCE(AVG(p.final_price), 0)",
		"COALESCE(MIN(p.final_price), 0)",
		"COALESCE(MAX(p.final_price), 0)",
		"COUNT(p.final_price)",
	).
		From("dynamic_pricing p").
		Join("hotels h ON h.id = p.hotel_id").
		Where(squirrel.ILike{"h.city": containsPattern(location)}).
		Where(squirrel.Eq{"p.room_type": roomType, "p.is_active": true}).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *PricingRepository) getOne(ctx context.Context, query squirrel.SelectBuilder) (*models.DynamicPricing, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanPricing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func scanPricing(row pgx.Row) (*models.DynamicPricing, error) {
	var p models.DynamicPricing
	if err := row.Scan(
		&p.ID, &p.HotelID, &p.RoomType, &p.Context, &p.Current, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
