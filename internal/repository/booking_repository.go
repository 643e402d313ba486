package repository

import (
	"context"

	"hotelchain/internal/models"
	"hotelchain/internal/recommend"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BookingRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBookingRepository(db *pgxpool.Pool, logger *zap.Logger) *BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BookingRepository) CreateBatch(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	builder := squirrel.Insert("bookings").
		Columns("id", "user_id", "hotel_id", "room_type", "status", "total_amount", "check_in", "check_out", "created_at", "updated_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, b := range bookings {
		builder = builder.Values(b.ID, b.UserID, b.HotelID, b.RoomType, b.Status, b.TotalAmount, b.CheckIn, b.CheckOut, b.CreatedAt, b.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListForUser returns the user's bookings in the given statuses, newest
// first, with the booked hotel's city and amenities resolved.
func (r *BookingRepository) ListForUser(ctx context.Context, userID uuid.UUID, statuses []models.BookingStatus) ([]recommend.PastBooking, error) {
	sql, args, err := listForUserQuery(userID, statuses).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []recommend.PastBooking
	for rows.Next() {
		var (
			b       recommend.PastBooking
			hotelID uuid.UUID
		)
		if err := rows.Scan(&hotelID, &b.TotalAmount, &b.HotelCity, &b.HotelAmenities); err != nil {
			return nil, err
		}
		b.HotelID = hotelID.String()
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func listForUserQuery(userID uuid.UUID, statuses []models.BookingStatus) squirrel.SelectBuilder {
	return squirrel.Select("b.hotel_id", "b.total_amount", "COALESCE(h.city, '')", "COALESCE(h.amenities, '{}')").
		From("bookings b").
		LeftJoin("hotels h ON h.id = b.hotel_id").
		Where(squirrel.Eq{"b.user_id": userID, "b.status": statuses}).
		OrderBy("b.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
}
