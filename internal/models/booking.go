package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ProfileStatuses are the booking states that count towards a user profile.
var ProfileStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusCompleted}

type Booking struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.UUID     `db:"user_id"`
	HotelID     uuid.UUID     `db:"hotel_id"`
	RoomType    string        `db:"room_type"`
	Status      BookingStatus `db:"status"`
	TotalAmount float64       `db:"total_amount"`
	CheckIn     time.Time     `db:"check_in"`
	CheckOut    time.Time     `db:"check_out"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}
