package auth

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

type Permission string

const (
	PermReadCatalog          Permission = "catalog:read"
	PermManageCatalog        Permission = "catalog:manage"
	PermManageCart           Permission = "cart:manage"
	PermCreateOrder          Permission = "order:create"
	PermReadOwnOrders        Permission = "order:read_own"
	PermReadRestaurantOrders Permission = "order:read_restaurant"
	PermAdvanceOrder         Permission = "order:advance"
	PermManageRestaurants    Permission = "admin:restaurants"
	PermManageCustomers      Permission = "admin:customers"
	PermReadStats            Permission = "admin:stats"
)

// capabilities is the complete role to operation mapping. Roles never share
// cart or order-advance rights.
var capabilities = map[Role]map[Permission]bool{
	RoleClient: {
		PermReadCatalog:   true,
		PermManageCart:    true,
		PermCreateOrder:   true,
		PermReadOwnOrders: true,
	},
	RoleEmployee: {
		PermReadCatalog:          true,
		PermManageCatalog:        true,
		PermReadRestaurantOrders: true,
		PermAdvanceOrder:         true,
	},
	RoleAdmin: {
		PermReadCatalog:       true,
		PermManageRestaurants: true,
		PermManageCustomers:   true,
		PermReadStats:         true,
	},
}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Can(p Permission) bool {
	return capabilities[r][p]
}

// Permissions lists what the role may do, in no particular order.
func (r Role) Permissions() []Permission {
	perms := make([]Permission, 0, len(capabilities[r]))
	for p := range capabilities[r] {
		perms = append(perms, p)
	}
	return perms
}

func (r Role) String() string {
	return string(r)
}
