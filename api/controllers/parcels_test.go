package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/pagination"
)

type fakeParcelsService struct {
	createFn func(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error)
	getFn    func(ctx context.Context, parcelID uuid.UUID) (*models.Parcel, error)
	cancelFn func(ctx context.Context, parcelID uuid.UUID, requesterEmail string, isAdmin bool) error
	trackFn  func(ctx context.Context, trackingCode string) (*parcels.TrackResult, error)
}

func (f *fakeParcelsService) Create(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error) {
	if f.createFn != nil {
		return f.createFn(ctx, input)
	}
	return &models.Parcel{ID: uuid.New(), CreatorEmail: input.CreatorEmail}, nil
}

func (f *fakeParcelsService) Get(ctx context.Context, parcelID uuid.UUID) (*models.Parcel, error) {
	if f.getFn != nil {
		return f.getFn(ctx, parcelID)
	}
	return &models.Parcel{ID: parcelID}, nil
}

func (f *fakeParcelsService) ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelsService) ListPage(ctx context.Context, params pagination.Params) (*parcels.ParcelPage, error) {
	return &parcels.ParcelPage{}, nil
}

func (f *fakeParcelsService) Cancel(ctx context.Context, parcelID uuid.UUID, requesterEmail string, isAdmin bool) error {
	if f.cancelFn != nil {
		return f.cancelFn(ctx, parcelID, requesterEmail, isAdmin)
	}
	return nil
}

func (f *fakeParcelsService) Assign(ctx context.Context, parcelID, riderID uuid.UUID) error {
	return nil
}

func (f *fakeParcelsService) Pickup(ctx context.Context, parcelID, riderID uuid.UUID) error {
	return nil
}

func (f *fakeParcelsService) Deliver(ctx context.Context, parcelID, riderID uuid.UUID) error {
	return nil
}

func (f *fakeParcelsService) Cashout(ctx context.Context, parcelID, riderID uuid.UUID) error {
	return nil
}

func (f *fakeParcelsService) Track(ctx context.Context, trackingCode string) (*parcels.TrackResult, error) {
	if f.trackFn != nil {
		return f.trackFn(ctx, trackingCode)
	}
	return &parcels.TrackResult{Parcel: &models.Parcel{TrackingCode: trackingCode}}, nil
}

func (f *fakeParcelsService) AssignedToRider(ctx context.Context, riderID uuid.UUID) ([]models.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelsService) CompletedByRider(ctx context.Context, riderID uuid.UUID) (*parcels.RiderEarnings, error) {
	return &parcels.RiderEarnings{}, nil
}

const validParcelBody = `{
	"type": "non-document",
	"weight_kg": 5,
	"sender": {"name": "Sender One", "contact": "01700000001", "region": "Dhaka", "district": "Dhaka", "address": "House 1"},
	"receiver": {"name": "Receiver One", "contact": "01700000002", "region": "Chattogram", "district": "Chattogram", "address": "House 2"},
	"proposed_cost": 270
}`

func withIdentity(req *http.Request, email, role string) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), uuid.NewString(), email, role))
}

func TestCreateParcelPassesIdentity(t *testing.T) {
	var captured parcels.CreateParcelInput
	svc := &fakeParcelsService{
		createFn: func(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error) {
			captured = input
			return &models.Parcel{ID: uuid.New(), CreatorEmail: input.CreatorEmail, Type: input.Type}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(validParcelBody))
	req = withIdentity(req, "customer@example.com", string(enums.RoleUser))
	rec := httptest.NewRecorder()
	CreateParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if captured.CreatorEmail != "customer@example.com" {
		t.Fatalf("creator = %q", captured.CreatorEmail)
	}
	if captured.Type != enums.ParcelTypeNonDocument {
		t.Fatalf("type = %s", captured.Type)
	}
	if captured.ProposedCost != 270 {
		t.Fatalf("proposed cost = %d", captured.ProposedCost)
	}
}

func TestCreateParcelMapsCostMismatch(t *testing.T) {
	svc := &fakeParcelsService{
		createFn: func(ctx context.Context, input parcels.CreateParcelInput) (*models.Parcel, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost mismatch").
				WithDetails(map[string]any{"proposed": 100, "recomputed": 270})
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(validParcelBody))
	req = withIdentity(req, "customer@example.com", string(enums.RoleUser))
	rec := httptest.NewRecorder()
	CreateParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("code = %s", envelope.Error.Code)
	}
	if envelope.Error.Details["recomputed"] == nil {
		t.Fatalf("expected recomputed detail, got %v", envelope.Error.Details)
	}
}

func TestCreateParcelRejectsUnknownType(t *testing.T) {
	body := strings.Replace(validParcelBody, "non-document", "fragile", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parcels", strings.NewReader(body))
	req = withIdentity(req, "customer@example.com", string(enums.RoleUser))
	rec := httptest.NewRecorder()
	CreateParcel(&fakeParcelsService{}, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func parcelRequestWithParam(method, target, param, value string, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetParcelHidesOtherCustomers(t *testing.T) {
	parcelID := uuid.New()
	svc := &fakeParcelsService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
			return &models.Parcel{ID: id, CreatorEmail: "owner@example.com"}, nil
		},
	}

	req := parcelRequestWithParam(http.MethodGet, "/api/v1/parcels/"+parcelID.String(), "parcelId", parcelID.String(), "")
	req = withIdentity(req, "intruder@example.com", string(enums.RoleUser))
	rec := httptest.NewRecorder()
	GetParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestGetParcelAllowsAdmin(t *testing.T) {
	parcelID := uuid.New()
	svc := &fakeParcelsService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
			return &models.Parcel{ID: id, CreatorEmail: "owner@example.com"}, nil
		},
	}

	req := parcelRequestWithParam(http.MethodGet, "/api/v1/parcels/"+parcelID.String(), "parcelId", parcelID.String(), "")
	req = withIdentity(req, "admin@example.com", string(enums.RoleAdmin))
	rec := httptest.NewRecorder()
	GetParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCancelParcelMapsStateConflict(t *testing.T) {
	parcelID := uuid.New()
	svc := &fakeParcelsService{
		cancelFn: func(ctx context.Context, id uuid.UUID, requesterEmail string, isAdmin bool) error {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "paid parcels cannot be cancelled")
		},
	}

	req := parcelRequestWithParam(http.MethodDelete, "/api/v1/parcels/"+parcelID.String(), "parcelId", parcelID.String(), "")
	req = withIdentity(req, "owner@example.com", string(enums.RoleUser))
	rec := httptest.NewRecorder()
	CancelParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestTrackParcelNotFound(t *testing.T) {
	svc := &fakeParcelsService{
		trackFn: func(ctx context.Context, trackingCode string) (*parcels.TrackResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		},
	}

	req := parcelRequestWithParam(http.MethodGet, "/api/v1/track/PCL-20250815-ZZZZZ", "trackingCode", "PCL-20250815-ZZZZZ", "")
	rec := httptest.NewRecorder()
	TrackParcel(svc, nil)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
