package enums

import "fmt"

// TrackingStatus labels the immutable ledger entries written on each parcel
// transition.
type TrackingStatus string

const (
	TrackingStatusParcelCreated    TrackingStatus = "parcel_created"
	TrackingStatusPaymentConfirmed TrackingStatus = "payment_confirmed"
	TrackingStatusRiderAssigned    TrackingStatus = "rider_assigned"
	TrackingStatusInTransit        TrackingStatus = "in_transit"
	TrackingStatusDelivered        TrackingStatus = "delivered"
)

var validTrackingStatuses = []TrackingStatus{
	TrackingStatusParcelCreated,
	TrackingStatusPaymentConfirmed,
	TrackingStatusRiderAssigned,
	TrackingStatusInTransit,
	TrackingStatusDelivered,
}

// String implements fmt.Stringer.
func (t TrackingStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrackingStatus.
func (t TrackingStatus) IsValid() bool {
	for _, candidate := range validTrackingStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrackingStatus converts raw input into a TrackingStatus.
func ParseTrackingStatus(value string) (TrackingStatus, error) {
	for _, candidate := range validTrackingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking status %q", value)
}
