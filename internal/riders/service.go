package riders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db"
	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
)

// Service defines rider recruitment and lookup operations.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*models.Rider, error)
	Approve(ctx context.Context, riderID uuid.UUID) error
	Reject(ctx context.Context, riderID uuid.UUID) error
	Deactivate(ctx context.Context, riderID uuid.UUID) error
	Get(ctx context.Context, riderID uuid.UUID) (*models.Rider, error)
	GetByEmail(ctx context.Context, email string) (*models.Rider, error)
	ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error)
	ListEligible(ctx context.Context, district string) ([]models.Rider, error)
}

type service struct {
	repo Repository
}

// ApplyInput captures a rider application.
type ApplyInput struct {
	Name                string
	Email               string
	Phone               string
	Region              string
	District            string
	VehicleType         string
	VehicleRegistration string
}

// NewService wires a rider service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("riders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Apply(ctx context.Context, input ApplyInput) (*models.Rider, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.District) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district is required")
	}

	rider := &models.Rider{
		Name:                strings.TrimSpace(input.Name),
		Email:               email,
		Phone:               strings.TrimSpace(input.Phone),
		Region:              strings.TrimSpace(input.Region),
		District:            strings.TrimSpace(input.District),
		VehicleType:         strings.TrimSpace(input.VehicleType),
		VehicleRegistration: strings.TrimSpace(input.VehicleRegistration),
		Status:              enums.RiderStatusPending,
	}

	if err := s.repo.Create(ctx, rider); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a rider application already exists for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rider")
	}
	return rider, nil
}

func (s *service) Approve(ctx context.Context, riderID uuid.UUID) error {
	return s.transition(ctx, riderID, enums.RiderStatusPending, enums.RiderStatusActive)
}

func (s *service) Reject(ctx context.Context, riderID uuid.UUID) error {
	return s.transition(ctx, riderID, enums.RiderStatusPending, enums.RiderStatusRejected)
}

func (s *service) Deactivate(ctx context.Context, riderID uuid.UUID) error {
	return s.transition(ctx, riderID, enums.RiderStatusActive, enums.RiderStatusDeactivated)
}

// transition applies a conditional status flip so concurrent admin actions
// cannot both win against the same application.
func (s *service) transition(ctx context.Context, riderID uuid.UUID, from, to enums.RiderStatus) error {
	if riderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "rider id required")
	}

	updated, err := s.repo.UpdateStatus(ctx, riderID, from, to)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider status")
	}
	if updated > 0 {
		return nil
	}

	if _, err := s.repo.FindByID(ctx, riderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("rider is not %s", from))
}

func (s *service) Get(ctx context.Context, riderID uuid.UUID) (*models.Rider, error) {
	if riderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rider id required")
	}
	rider, err := s.repo.FindByID(ctx, riderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}
	return rider, nil
}

// GetByEmail resolves the rider record behind an authenticated account.
func (s *service) GetByEmail(ctx context.Context, email string) (*models.Rider, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	rider, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}
	return rider, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rider status %q", status))
	}
	riders, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list riders")
	}
	return riders, nil
}

// ListEligible returns active riders covering the district. An empty result is
// a valid answer, not an error.
func (s *service) ListEligible(ctx context.Context, district string) ([]models.Rider, error) {
	district = strings.TrimSpace(district)
	if district == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district is required")
	}
	riders, err := s.repo.ListEligible(ctx, district)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list eligible riders")
	}
	return riders, nil
}
