package validators

import (
	"fmt"
	"net/http"
	"strconv"

	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter, returning fallback
// when absent and rejecting values outside [min, max].
func ParseQueryInt(r *http.Request, name string, fallback, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("query parameter %q must be an integer", name))
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("query parameter %q must be between %d and %d", name, min, max))
	}
	return value, nil
}

// ParseQueryString reads an optional string query parameter.
func ParseQueryString(r *http.Request, name, fallback string) string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	return raw
}
