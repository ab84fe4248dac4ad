package enums

import "fmt"

// ParcelType distinguishes flat-rate documents from weighed goods.
type ParcelType string

const (
	ParcelTypeDocument    ParcelType = "document"
	ParcelTypeNonDocument ParcelType = "non-document"
)

var validParcelTypes = []ParcelType{
	ParcelTypeDocument,
	ParcelTypeNonDocument,
}

// String implements fmt.Stringer.
func (p ParcelType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ParcelType.
func (p ParcelType) IsValid() bool {
	for _, candidate := range validParcelTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseParcelType converts raw input into a ParcelType.
func ParseParcelType(value string) (ParcelType, error) {
	for _, candidate := range validParcelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid parcel type %q", value)
}
