package auth

import (
	"fmt"
	"time"
)

// Principal is an authenticated actor. RestaurantID is only set for employees.
type Principal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p Principal) Can(perm Permission) bool {
	return p.Role.Can(perm)
}

func (p Principal) Require(perm Permission) error {
	if !p.Can(perm) {
		return fmt.Errorf("%w: role %s cannot %s", ErrPermissionDenied, p.Role, perm)
	}
	return nil
}

// RequireRestaurant is Require plus a check that the principal works for restaurantID.
func (p Principal) RequireRestaurant(perm Permission, restaurantID string) error {
	if err := p.Require(perm); err != nil {
		return err
	}
	if p.RestaurantID == "" || p.RestaurantID != restaurantID {
		return fmt.Errorf("%w: principal %s is not scoped to restaurant %s", ErrPermissionDenied, p.ID, restaurantID)
	}
	return nil
}
