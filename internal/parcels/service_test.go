package parcels

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/internal/riders"
	"github.com/parcelpoint/courier-backend/internal/tracking"
	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/pagination"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeParcelRepo struct {
	parcels map[uuid.UUID]*models.Parcel

	createFn        func(ctx context.Context, parcel *models.Parcel) error
	assignRiderFn   func(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error)
	markDeliveredFn func(ctx context.Context, id, riderID uuid.UUID, earning int, at time.Time) (int64, error)
	settleCashoutFn func(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error)
	deleteUnpaidFn  func(ctx context.Context, id uuid.UUID) (int64, error)
}

func newFakeParcelRepo() *fakeParcelRepo {
	return &fakeParcelRepo{parcels: map[uuid.UUID]*models.Parcel{}}
}

func (f *fakeParcelRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeParcelRepo) Create(ctx context.Context, parcel *models.Parcel) error {
	if f.createFn != nil {
		return f.createFn(ctx, parcel)
	}
	parcel.ID = uuid.New()
	f.parcels[parcel.ID] = parcel
	return nil
}

func (f *fakeParcelRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	parcel, ok := f.parcels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return parcel, nil
}

func (f *fakeParcelRepo) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error) {
	for _, parcel := range f.parcels {
		if parcel.TrackingCode == trackingCode {
			return parcel, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeParcelRepo) ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelRepo) ListByRider(ctx context.Context, riderID uuid.UUID, statuses ...enums.DeliveryStatus) ([]models.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelRepo) ListPage(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Parcel, error) {
	return nil, nil
}

func (f *fakeParcelRepo) DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error) {
	if f.deleteUnpaidFn != nil {
		return f.deleteUnpaidFn(ctx, id)
	}
	parcel, ok := f.parcels[id]
	if !ok || parcel.PaymentStatus != enums.PaymentStatusUnpaid {
		return 0, nil
	}
	delete(f.parcels, id)
	return 1, nil
}

func (f *fakeParcelRepo) MarkPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	parcel, ok := f.parcels[id]
	if !ok || parcel.PaymentStatus != enums.PaymentStatusUnpaid {
		return 0, nil
	}
	parcel.PaymentStatus = enums.PaymentStatusPaid
	return 1, nil
}

func (f *fakeParcelRepo) AssignRider(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	if f.assignRiderFn != nil {
		return f.assignRiderFn(ctx, id, riderID, at)
	}
	parcel, ok := f.parcels[id]
	if !ok || parcel.DeliveryStatus != enums.DeliveryStatusNotCollected || parcel.PaymentStatus != enums.PaymentStatusPaid {
		return 0, nil
	}
	parcel.DeliveryStatus = enums.DeliveryStatusAssigned
	parcel.RiderID = &riderID
	parcel.AssignedAt = &at
	return 1, nil
}

func (f *fakeParcelRepo) MarkPickedUp(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	parcel, ok := f.parcels[id]
	if !ok || parcel.DeliveryStatus != enums.DeliveryStatusAssigned || parcel.RiderID == nil || *parcel.RiderID != riderID {
		return 0, nil
	}
	parcel.DeliveryStatus = enums.DeliveryStatusInTransit
	parcel.PickedUpAt = &at
	return 1, nil
}

func (f *fakeParcelRepo) MarkDelivered(ctx context.Context, id, riderID uuid.UUID, earning int, at time.Time) (int64, error) {
	if f.markDeliveredFn != nil {
		return f.markDeliveredFn(ctx, id, riderID, earning, at)
	}
	parcel, ok := f.parcels[id]
	if !ok || parcel.DeliveryStatus != enums.DeliveryStatusInTransit || parcel.RiderID == nil || *parcel.RiderID != riderID {
		return 0, nil
	}
	parcel.DeliveryStatus = enums.DeliveryStatusDelivered
	parcel.CashoutStatus = enums.CashoutStatusPending
	parcel.EarningAmount = &earning
	parcel.DeliveredAt = &at
	return 1, nil
}

func (f *fakeParcelRepo) SettleCashout(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	if f.settleCashoutFn != nil {
		return f.settleCashoutFn(ctx, id, riderID, at)
	}
	parcel, ok := f.parcels[id]
	if !ok || parcel.DeliveryStatus != enums.DeliveryStatusDelivered ||
		parcel.CashoutStatus != enums.CashoutStatusPending ||
		parcel.RiderID == nil || *parcel.RiderID != riderID {
		return 0, nil
	}
	parcel.CashoutStatus = enums.CashoutStatusSettled
	parcel.CashedOutAt = &at
	return 1, nil
}

type fakeRiderRepo struct {
	riders  map[uuid.UUID]*models.Rider
	accrued map[uuid.UUID]int
	settled map[uuid.UUID]int
}

func newFakeRiderRepo() *fakeRiderRepo {
	return &fakeRiderRepo{
		riders:  map[uuid.UUID]*models.Rider{},
		accrued: map[uuid.UUID]int{},
		settled: map[uuid.UUID]int{},
	}
}

func (f *fakeRiderRepo) WithTx(tx *gorm.DB) riders.Repository { return f }

func (f *fakeRiderRepo) Create(ctx context.Context, rider *models.Rider) error { return nil }

func (f *fakeRiderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	rider, ok := f.riders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rider, nil
}

func (f *fakeRiderRepo) FindByEmail(ctx context.Context, email string) (*models.Rider, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRiderRepo) ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error) {
	return nil, nil
}

func (f *fakeRiderRepo) ListEligible(ctx context.Context, district string) ([]models.Rider, error) {
	return nil, nil
}

func (f *fakeRiderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.RiderStatus) (int64, error) {
	return 0, nil
}

func (f *fakeRiderRepo) AccrueEarning(ctx context.Context, id uuid.UUID, amount int) error {
	f.accrued[id] += amount
	if rider, ok := f.riders[id]; ok {
		rider.TotalEarnings += amount
	}
	return nil
}

func (f *fakeRiderRepo) SettleEarning(ctx context.Context, id uuid.UUID, amount int) error {
	f.settled[id] += amount
	if rider, ok := f.riders[id]; ok {
		rider.SettledEarnings += amount
	}
	return nil
}

type fakeTracking struct {
	events []tracking.AppendEventInput
}

func (f *fakeTracking) WithTx(tx *gorm.DB) tracking.Service { return f }

func (f *fakeTracking) Append(ctx context.Context, input tracking.AppendEventInput) (*models.TrackingEvent, error) {
	f.events = append(f.events, input)
	return &models.TrackingEvent{
		TrackingCode: input.TrackingCode,
		Status:       input.Status,
		Message:      input.Message,
		Location:     input.Location,
	}, nil
}

func (f *fakeTracking) History(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	for _, input := range f.events {
		if input.TrackingCode == trackingCode {
			events = append(events, models.TrackingEvent{
				TrackingCode: input.TrackingCode,
				Status:       input.Status,
				Message:      input.Message,
			})
		}
	}
	return events, nil
}

func newTestService(t *testing.T, repo *fakeParcelRepo, riderRepo *fakeRiderRepo, ledger *fakeTracking) Service {
	t.Helper()
	svc, err := NewService(repo, riderRepo, ledger, fakeTx{}, 30)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func validCreateInput() CreateParcelInput {
	return CreateParcelInput{
		Type:     enums.ParcelTypeNonDocument,
		WeightKG: decimal.RequireFromString("5"),
		Sender: PartyInput{
			Name:     "Store A",
			Contact:  "+880170",
			Region:   "Dhaka",
			District: "Gulshan",
			Address:  "House 1",
		},
		Receiver: PartyInput{
			Name:     "Customer B",
			Contact:  "+880171",
			Region:   "Chattogram",
			District: "Kotwali",
			Address:  "House 2",
		},
		ProposedCost: 270,
		CreatorEmail: "merchant@example.com",
	}
}

func TestService_Create(t *testing.T) {
	repo := newFakeParcelRepo()
	ledger := &fakeTracking{}
	svc := newTestService(t, repo, newFakeRiderRepo(), ledger)

	parcel, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if !strings.HasPrefix(parcel.TrackingCode, "PCL-") {
		t.Fatalf("unexpected tracking code %q", parcel.TrackingCode)
	}
	if parcel.CostTotal != 270 || parcel.CostBase != 150 || parcel.CostWeight != 80 || parcel.CostRegion != 40 {
		t.Fatalf("unexpected cost breakdown: %+v", parcel)
	}
	if parcel.DeliveryStatus != enums.DeliveryStatusNotCollected || parcel.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("unexpected initial state: %s/%s", parcel.DeliveryStatus, parcel.PaymentStatus)
	}
	if len(ledger.events) != 1 || ledger.events[0].Status != enums.TrackingStatusParcelCreated {
		t.Fatalf("expected one creation event, got %+v", ledger.events)
	}
}

func TestService_Create_CostMismatch(t *testing.T) {
	repo := newFakeParcelRepo()
	ledger := &fakeTracking{}
	svc := newTestService(t, repo, newFakeRiderRepo(), ledger)

	input := validCreateInput()
	input.ProposedCost = 150

	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.parcels) != 0 {
		t.Fatalf("a rejected creation must not persist a parcel")
	}
	if len(ledger.events) != 0 {
		t.Fatalf("a rejected creation must not write a ledger entry")
	}
}

func TestService_Cancel_PaidParcelGuard(t *testing.T) {
	repo := newFakeParcelRepo()
	svc := newTestService(t, repo, newFakeRiderRepo(), &fakeTracking{})

	id := uuid.New()
	repo.parcels[id] = &models.Parcel{
		ID:            id,
		PaymentStatus: enums.PaymentStatusPaid,
		CreatorEmail:  "merchant@example.com",
	}

	err := svc.Cancel(context.Background(), id, "merchant@example.com", false)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if _, ok := repo.parcels[id]; !ok {
		t.Fatalf("paid parcel must survive a cancel attempt")
	}
}

func TestService_Cancel_OwnershipGuard(t *testing.T) {
	repo := newFakeParcelRepo()
	svc := newTestService(t, repo, newFakeRiderRepo(), &fakeTracking{})

	id := uuid.New()
	repo.parcels[id] = &models.Parcel{
		ID:            id,
		PaymentStatus: enums.PaymentStatusUnpaid,
		CreatorEmail:  "merchant@example.com",
	}

	err := svc.Cancel(context.Background(), id, "other@example.com", false)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_Assign_Guards(t *testing.T) {
	parcelID := uuid.New()
	riderID := uuid.New()

	tests := []struct {
		name     string
		parcel   models.Parcel
		rider    models.Rider
		wantCode pkgerrors.Code
	}{
		{
			name: "unpaid parcel",
			parcel: models.Parcel{
				ID:             parcelID,
				DeliveryStatus: enums.DeliveryStatusNotCollected,
				PaymentStatus:  enums.PaymentStatusUnpaid,
				SenderDistrict: "Gulshan",
			},
			rider:    models.Rider{ID: riderID, Status: enums.RiderStatusActive, District: "Gulshan"},
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "already assigned",
			parcel: models.Parcel{
				ID:             parcelID,
				DeliveryStatus: enums.DeliveryStatusAssigned,
				PaymentStatus:  enums.PaymentStatusPaid,
				SenderDistrict: "Gulshan",
			},
			rider:    models.Rider{ID: riderID, Status: enums.RiderStatusActive, District: "Gulshan"},
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "inactive rider",
			parcel: models.Parcel{
				ID:             parcelID,
				DeliveryStatus: enums.DeliveryStatusNotCollected,
				PaymentStatus:  enums.PaymentStatusPaid,
				SenderDistrict: "Gulshan",
			},
			rider:    models.Rider{ID: riderID, Status: enums.RiderStatusPending, District: "Gulshan"},
			wantCode: pkgerrors.CodeStateConflict,
		},
		{
			name: "district mismatch",
			parcel: models.Parcel{
				ID:             parcelID,
				DeliveryStatus: enums.DeliveryStatusNotCollected,
				PaymentStatus:  enums.PaymentStatusPaid,
				SenderDistrict: "Gulshan",
			},
			rider:    models.Rider{ID: riderID, Status: enums.RiderStatusActive, District: "Kotwali"},
			wantCode: pkgerrors.CodeStateConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeParcelRepo()
			riderRepo := newFakeRiderRepo()
			parcel := tc.parcel
			rider := tc.rider
			repo.parcels[parcelID] = &parcel
			riderRepo.riders[riderID] = &rider

			svc := newTestService(t, repo, riderRepo, &fakeTracking{})
			err := svc.Assign(context.Background(), parcelID, riderID)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestService_FullLifecycle(t *testing.T) {
	repo := newFakeParcelRepo()
	riderRepo := newFakeRiderRepo()
	ledger := &fakeTracking{}
	svc := newTestService(t, repo, riderRepo, ledger)

	parcel, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	riderID := uuid.New()
	riderRepo.riders[riderID] = &models.Rider{
		ID:       riderID,
		Name:     "Karim",
		Status:   enums.RiderStatusActive,
		District: "Gulshan",
	}

	if _, err := repo.MarkPaid(context.Background(), parcel.ID); err != nil {
		t.Fatalf("MarkPaid error: %v", err)
	}

	if err := svc.Assign(context.Background(), parcel.ID, riderID); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if err := svc.Pickup(context.Background(), parcel.ID, riderID); err != nil {
		t.Fatalf("Pickup error: %v", err)
	}
	if err := svc.Deliver(context.Background(), parcel.ID, riderID); err != nil {
		t.Fatalf("Deliver error: %v", err)
	}

	// 30% of 270
	if riderRepo.accrued[riderID] != 81 {
		t.Fatalf("expected earning accrual of 81, got %d", riderRepo.accrued[riderID])
	}
	if parcel.EarningAmount == nil || *parcel.EarningAmount != 81 {
		t.Fatalf("expected earning recorded on parcel, got %+v", parcel.EarningAmount)
	}

	statuses := make([]enums.TrackingStatus, 0, len(ledger.events))
	for _, event := range ledger.events {
		statuses = append(statuses, event.Status)
	}
	want := []enums.TrackingStatus{
		enums.TrackingStatusParcelCreated,
		enums.TrackingStatusRiderAssigned,
		enums.TrackingStatusInTransit,
		enums.TrackingStatusDelivered,
	}
	if len(statuses) != len(want) {
		t.Fatalf("expected %d ledger events, got %d", len(want), len(statuses))
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("ledger order mismatch at %d: got %s want %s", i, statuses[i], want[i])
		}
	}
}

func TestService_Deliver_SkippingStatesFails(t *testing.T) {
	repo := newFakeParcelRepo()
	riderRepo := newFakeRiderRepo()
	svc := newTestService(t, repo, riderRepo, &fakeTracking{})

	riderID := uuid.New()
	id := uuid.New()
	repo.parcels[id] = &models.Parcel{
		ID:             id,
		TrackingCode:   "PCL-20250815-AAAAA",
		DeliveryStatus: enums.DeliveryStatusNotCollected,
		PaymentStatus:  enums.PaymentStatusPaid,
		RiderID:        &riderID,
	}

	err := svc.Deliver(context.Background(), id, riderID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestService_Cashout_Idempotence(t *testing.T) {
	repo := newFakeParcelRepo()
	riderRepo := newFakeRiderRepo()
	svc := newTestService(t, repo, riderRepo, &fakeTracking{})

	riderID := uuid.New()
	riderRepo.riders[riderID] = &models.Rider{ID: riderID, Status: enums.RiderStatusActive}

	earning := 81
	id := uuid.New()
	repo.parcels[id] = &models.Parcel{
		ID:             id,
		TrackingCode:   "PCL-20250815-AAAAA",
		DeliveryStatus: enums.DeliveryStatusDelivered,
		CashoutStatus:  enums.CashoutStatusPending,
		RiderID:        &riderID,
		EarningAmount:  &earning,
	}

	if err := svc.Cashout(context.Background(), id, riderID); err != nil {
		t.Fatalf("first cashout error: %v", err)
	}
	if riderRepo.settled[riderID] != 81 {
		t.Fatalf("expected settled earning 81, got %d", riderRepo.settled[riderID])
	}

	err := svc.Cashout(context.Background(), id, riderID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeIdempotency {
		t.Fatalf("expected idempotency rejection, got %v", err)
	}
	if riderRepo.settled[riderID] != 81 {
		t.Fatalf("second cashout must not settle again, got %d", riderRepo.settled[riderID])
	}
}

func TestService_Track(t *testing.T) {
	repo := newFakeParcelRepo()
	ledger := &fakeTracking{}
	svc := newTestService(t, repo, newFakeRiderRepo(), ledger)

	parcel, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	result, err := svc.Track(context.Background(), parcel.TrackingCode)
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}
	if result.Parcel.ID != parcel.ID {
		t.Fatalf("unexpected parcel in track result")
	}
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Events))
	}

	_, err = svc.Track(context.Background(), "PCL-20250815-ZZZZZ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
