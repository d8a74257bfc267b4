package cart

import "errors"

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrIndexOutOfRange  = errors.New("cart line index out of range")
)
