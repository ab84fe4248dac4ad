package enums

import "fmt"

// DeliveryStatus tracks a parcel along its fixed delivery progression.
type DeliveryStatus string

const (
	DeliveryStatusNotCollected DeliveryStatus = "not-collected"
	DeliveryStatusAssigned     DeliveryStatus = "assigned"
	DeliveryStatusInTransit    DeliveryStatus = "in-transit"
	DeliveryStatusDelivered    DeliveryStatus = "delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusNotCollected,
	DeliveryStatusAssigned,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// Next returns the status that legally follows the current one. Delivered is
// terminal and returns false.
func (d DeliveryStatus) Next() (DeliveryStatus, bool) {
	switch d {
	case DeliveryStatusNotCollected:
		return DeliveryStatusAssigned, true
	case DeliveryStatusAssigned:
		return DeliveryStatusInTransit, true
	case DeliveryStatusInTransit:
		return DeliveryStatusDelivered, true
	default:
		return "", false
	}
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
