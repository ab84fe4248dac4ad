package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
)

type samplePayload struct {
	Email  string `json:"email" validate:"required,email"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","amount":100}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "a@b.com" || payload.Amount != 100 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyUnknownField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","amount":1,"extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldErrorsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","amount":0}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %#v", typed.Details())
	}
	if _, ok := details["email"]; !ok {
		t.Fatalf("expected email field in details: %v", details)
	}
}
