package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, event *models.TrackingEvent) error
	listFn   func(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, event *models.TrackingEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) ListByTrackingCode(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
	if f.listFn != nil {
		return f.listFn(ctx, trackingCode)
	}
	return nil, nil
}

func TestService_Append(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.TrackingEvent
	repo.createFn = func(ctx context.Context, event *models.TrackingEvent) error {
		created = event
		return nil
	}

	location := "Dhaka"
	got, err := svc.Append(context.Background(), AppendEventInput{
		TrackingCode: "PCL-20250815-7K2QX",
		Status:       enums.TrackingStatusParcelCreated,
		Message:      "Parcel booked",
		Location:     &location,
	})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if created == nil || got != created {
		t.Fatalf("expected repository create to receive the event")
	}
	if got.TrackingCode != "PCL-20250815-7K2QX" || got.Status != enums.TrackingStatusParcelCreated {
		t.Fatalf("unexpected event fields: %+v", got)
	}
}

func TestService_Append_Validation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	cases := []struct {
		name  string
		input AppendEventInput
	}{
		{name: "missing tracking code", input: AppendEventInput{Status: enums.TrackingStatusDelivered, Message: "done"}},
		{name: "invalid status", input: AppendEventInput{TrackingCode: "PCL-20250815-7K2QX", Status: "teleported", Message: "done"}},
		{name: "missing message", input: AppendEventInput{TrackingCode: "PCL-20250815-7K2QX", Status: enums.TrackingStatusDelivered}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Append(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestService_History_OrderPreserved(t *testing.T) {
	now := time.Now()
	repo := &fakeRepository{
		listFn: func(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
			return []models.TrackingEvent{
				{TrackingCode: trackingCode, Status: enums.TrackingStatusParcelCreated, CreatedAt: now},
				{TrackingCode: trackingCode, Status: enums.TrackingStatusInTransit, CreatedAt: now.Add(time.Minute)},
			}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	events, err := svc.History(context.Background(), "PCL-20250815-7K2QX")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].CreatedAt.Before(events[1].CreatedAt) {
		t.Fatalf("events must come back in ascending timestamp order")
	}
}

func TestService_History_EmptyIsNotError(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	events, err := svc.History(context.Background(), "PCL-20250815-7K2QX")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty history, got %d events", len(events))
	}
}

func TestService_History_PropagatesRepoError(t *testing.T) {
	boom := errors.New("db down")
	svc, err := NewService(&fakeRepository{
		listFn: func(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
			return nil, boom
		},
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.History(context.Background(), "PCL-20250815-7K2QX"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
