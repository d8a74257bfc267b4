package catalog

import "errors"

var (
	ErrNotFound             = errors.New("catalog entry not found")
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidRestaurant    = errors.New("invalid restaurant")
	ErrInvalidBusinessHours = errors.New("invalid business hours")
	ErrInsufficientStock    = errors.New("insufficient stock")
)
