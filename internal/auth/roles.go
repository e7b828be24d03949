package auth

import (
	"strings"

	"github.com/pavelkurin/notes-api/internal/stringutil"
)

// Role is one of the closed set of user roles carried by access tokens.
type Role int

const (
	RoleGuest Role = iota
	RoleCustomer
	RoleAdmin
)

const (
	roleNameAdmin    = "admin"
	roleNameCustomer = "customer"
	roleNameGuest    = "guest"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleNameAdmin
	case RoleCustomer:
		return roleNameCustomer
	default:
		return roleNameGuest
	}
}

// ParseRole maps a role name to a Role. Unknown names are reported as invalid.
func ParseRole(name string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case roleNameAdmin:
		return RoleAdmin, true
	case roleNameCustomer:
		return RoleCustomer, true
	case roleNameGuest:
		return RoleGuest, true
	}
	return RoleGuest, false
}

// ParseRoles parses a comma separated role list, skipping unknown entries.
func ParseRoles(list string) []Role {
	var names = stringutil.SplitTrimmed(list)
	var roles = make([]Role, 0, len(names))
	for _, name := range names {
		if role, ok := ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// FormatRoles renders roles as the comma separated claim value.
func FormatRoles(roles []Role) string {
	var names = make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return strings.Join(names, ",")
}

func ContainsAdmin(roles []Role) bool {
	for _, role := range roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}
