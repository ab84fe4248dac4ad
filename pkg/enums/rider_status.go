package enums

import "fmt"

// RiderStatus tracks a rider application through recruitment and beyond.
type RiderStatus string

const (
	RiderStatusPending     RiderStatus = "pending"
	RiderStatusActive      RiderStatus = "active"
	RiderStatusRejected    RiderStatus = "rejected"
	RiderStatusDeactivated RiderStatus = "deactivated"
)

var validRiderStatuses = []RiderStatus{
	RiderStatusPending,
	RiderStatusActive,
	RiderStatusRejected,
	RiderStatusDeactivated,
}

// String implements fmt.Stringer.
func (r RiderStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiderStatus.
func (r RiderStatus) IsValid() bool {
	for _, candidate := range validRiderStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRiderStatus converts raw input into a RiderStatus.
func ParseRiderStatus(value string) (RiderStatus, error) {
	for _, candidate := range validRiderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rider status %q", value)
}
