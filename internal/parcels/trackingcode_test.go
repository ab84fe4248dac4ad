package parcels

import (
	"regexp"
	"testing"
	"time"
)

var trackingCodePattern = regexp.MustCompile(`^PCL-\d{8}-[0-9A-Z]{5}$`)

func TestNewTrackingCode_Format(t *testing.T) {
	now := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	code, err := NewTrackingCode(now)
	if err != nil {
		t.Fatalf("NewTrackingCode error: %v", err)
	}
	if !trackingCodePattern.MatchString(code) {
		t.Fatalf("unexpected code format %q", code)
	}
	if code[4:12] != "20250815" {
		t.Fatalf("expected date segment 20250815, got %q", code[4:12])
	}
}

func TestNewTrackingCode_Varies(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewTrackingCode(now)
		if err != nil {
			t.Fatalf("NewTrackingCode error: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected random suffixes, got %d distinct codes", len(seen))
	}
}
