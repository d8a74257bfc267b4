package order

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotFound          = errors.New("order not found")
	ErrVersionConflict   = errors.New("order was modified concurrently")
	ErrInvalidOrder      = errors.New("invalid order")
)
