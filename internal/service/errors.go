package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")

	ErrHotelNotFound   = errors.New("hotel not found")
	ErrPricingNotFound = errors.New("pricing not found")
	ErrSessionNotFound = errors.New("recommendation session not found")
	ErrInvalidRange    = errors.New("invalid date range")
)
