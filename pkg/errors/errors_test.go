package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(CodeStateConflict)
	require.Equal(t, http.StatusUnprocessableEntity, meta.HTTPStatus)
	require.True(t, meta.DetailsAllowed)

	fallback := MetadataFor(Code("NOPE"))
	require.Equal(t, http.StatusInternalServerError, fallback.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "load parcel")

	require.Equal(t, CodeDependency, err.Code())
	require.Equal(t, "load parcel", err.Message())
	require.ErrorIs(t, err, cause)
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeNotFound, "parcel not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	require.Equal(t, CodeNotFound, typed.Code())

	require.Nil(t, As(fmt.Errorf("plain")))
	require.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "cost mismatch").WithDetails(map[string]any{
		"proposed": 150,
		"computed": 190,
	})
	require.NotNil(t, err.Details())

	dump := Dump(err)
	require.Equal(t, CodeValidation, dump.Code)
	require.NotEmpty(t, dump.Chain)
}
