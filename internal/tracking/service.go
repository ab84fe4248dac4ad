package tracking

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// Service defines operations over the append-only tracking ledger.
type Service interface {
	// WithTx returns a service whose writes join the supplied transaction.
	WithTx(tx *gorm.DB) Service
	Append(ctx context.Context, input AppendEventInput) (*models.TrackingEvent, error)
	History(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error)
}

type service struct {
	repo Repository
}

// AppendEventInput captures the immutable data a tracking event requires.
type AppendEventInput struct {
	TrackingCode string
	Status       enums.TrackingStatus
	Message      string
	Location     *string
}

// NewService wires a tracking service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) Append(ctx context.Context, input AppendEventInput) (*models.TrackingEvent, error) {
	code := strings.TrimSpace(input.TrackingCode)
	if code == "" {
		return nil, fmt.Errorf("tracking code is required")
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("invalid tracking status %q", input.Status)
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("tracking message is required")
	}

	event := &models.TrackingEvent{
		TrackingCode: code,
		Status:       input.Status,
		Message:      input.Message,
		Location:     input.Location,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) History(ctx context.Context, trackingCode string) ([]models.TrackingEvent, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return nil, fmt.Errorf("tracking code is required")
	}
	events, err := s.repo.ListByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return events, nil
}
