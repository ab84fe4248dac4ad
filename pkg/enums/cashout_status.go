package enums

import "fmt"

// CashoutStatus tracks whether a delivered parcel's rider earning is settled.
type CashoutStatus string

const (
	CashoutStatusNone    CashoutStatus = "none"
	CashoutStatusPending CashoutStatus = "pending"
	CashoutStatusSettled CashoutStatus = "settled"
)

var validCashoutStatuses = []CashoutStatus{
	CashoutStatusNone,
	CashoutStatusPending,
	CashoutStatusSettled,
}

// String implements fmt.Stringer.
func (c CashoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CashoutStatus.
func (c CashoutStatus) IsValid() bool {
	for _, candidate := range validCashoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCashoutStatus converts raw input into a CashoutStatus.
func ParseCashoutStatus(value string) (CashoutStatus, error) {
	for _, candidate := range validCashoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashout status %q", value)
}
