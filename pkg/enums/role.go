package enums

import "fmt"

// Role is the closed set of actor roles; authorization checks route through
// this type rather than ad hoc string comparisons.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleRider Role = "rider"
	RoleUser  Role = "user"
)

var validRoles = []Role{
	RoleAdmin,
	RoleRider,
	RoleUser,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
