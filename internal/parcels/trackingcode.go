package parcels

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	trackingCodePrefix = "PCL"
	trackingSuffixLen  = 5
	base36Alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewTrackingCode generates a customer-facing code of the form
// PCL-YYYYMMDD-XXXXX. Uniqueness is enforced by the parcels table; callers
// retry on a unique violation.
func NewTrackingCode(now time.Time) (string, error) {
	buf := make([]byte, trackingSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tracking suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", trackingCodePrefix, now.UTC().Format("20060102"), string(buf)), nil
}
