package repository

import (
	"context"

	"hotelchain/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var hotelColumns = []string{
	"id", "name", "city", "state", "rating", "amenities", "images",
	"room_types", "total_bookings", "status", "created_at", "updated_at",
}

type HotelRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHotelRepository(db *pgxpool.Pool, logger *zap.Logger) *HotelRepository {
	return &HotelRepository{
		db:     db,
		logger: logger,
	}
}

func (r *HotelRepository) Create(ctx context.Context, h *models.Hotel) error {
	query := squirrel.Insert("hotels").
		Columns(hotelColumns...).
		Values(h.ID, h.Name, h.City, h.State, h.Rating, h.Amenities, h.Images,
			h.RoomTypes, h.TotalBookings, h.Status, h.CreatedAt, h.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *HotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	query := squirrel.Select(hotelColumns...).
		From("hotels").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	h, err := scanHotel(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

// SearchActive returns active hotels whose city contains destination,
// case-insensitively. An empty destination matches every active hotel.
func (r *HotelRepository) SearchActive(ctx context.Context, destination string) ([]*models.Hotel, error) {
	return r.list(ctx, searchActiveQuery(destination))
}

// ListSimilar returns other active hotels in the same city, best rated first.
func (r *HotelRepository) ListSimilar(ctx context.Context, city string, exclude uuid.UUID, limit int) ([]*models.Hotel, error) {
	query := squirrel.Select(hotelColumns...).
		From("hotels").
		Where(squirrel.Eq{"status": models.HotelStatusActive, "city": city}).
		Where(squirrel.NotEq{"id": exclude}).
		OrderBy("rating DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

func searchActiveQuery(destination string) squirrel.SelectBuilder {
	query := squirrel.Select(hotelColumns...).
		From("hotels").
		Where(squirrel.Eq{"status": models.HotelStatusActive}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if destination != "" {
		query = query.Where(squirrel.ILike{"city": containsPattern(destination)})
	}
	return query
}

func (r *HotelRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Hotel, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []*models.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}

	return hotels, rows.Err()
}

func scanHotel(row pgx.Row) (*models.Hotel, error) {
	var h models.Hotel
	if err := row.Scan(
		&h.ID, &h.Name, &h.City, &h.State, &h.Rating, &h.Amenities, &h.Images,
		&h.RoomTypes, &h.TotalBookings, &h.Status, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}
