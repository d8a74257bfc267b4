package session

import (
	"errors"
	"time"

	"delivery-system/internal/auth"
	"delivery-system/internal/cart"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one storefront visit: the authenticated principal and the cart
// it owns. The cart is never shared between sessions.
type Session struct {
	ID        string
	CreatedAt time.Time

	auth *auth.Session
	cart *cart.Cart
}

func (s *Session) Auth() *auth.Session {
	return s.auth
}

func (s *Session) Principal() (auth.Principal, bool) {
	return s.auth.Principal()
}

// Cart returns the session's cart if the principal may use one.
func (s *Session) Cart() (*cart.Cart, error) {
	if _, err := s.auth.Require(auth.PermManageCart); err != nil {
		return nil, err
	}
	return s.cart, nil
}

// Logout drops the principal and empties the cart.
func (s *Session) Logout() {
	s.cart.Clear()
	s.auth.Logout()
}
