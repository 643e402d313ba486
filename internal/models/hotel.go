package models

import (
	"time"

	"github.com/google/uuid"
)

type HotelStatus string

const (
	HotelStatusActive   HotelStatus = "active"
	HotelStatusInactive HotelStatus = "inactive"
)

// RoomType is stored inside hotels.room_types as JSONB.
type RoomType struct {
	Type       string  `json:"type"`
	Price      float64 `json:"price"`
	TotalRooms int     `json:"total_rooms"`
	Available  int     `json:"available"`
}

type Hotel struct {
	ID            uuid.UUID   `db:"id"`
	Name          string      `db:"name"`
	City          string      `db:"city"`
	State         string      `db:"state"`
	Rating        float64     `db:"rating"`
	Amenities     []string    `db:"amenities"`
	Images        []string    `db:"images"`
	RoomTypes     []RoomType  `db:"room_types"`
	TotalBookings int         `db:"total_bookings"`
	Status        HotelStatus `db:"status"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}
