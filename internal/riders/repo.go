package riders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
)

// Repository manages persistence for riders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rider *models.Rider) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error)
	FindByEmail(ctx context.Context, email string) (*models.Rider, error)
	ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error)
	ListEligible(ctx context.Context, district string) ([]models.Rider, error)
	// UpdateStatus flips status only when the rider is still in the expected
	// prior state. Returns the number of rows changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.RiderStatus) (int64, error)
	AccrueEarning(ctx context.Context, id uuid.UUID, amount int) error
	SettleEarning(ctx context.Context, id uuid.UUID, amount int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a rider repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rider *models.Rider) error {
	return r.db.WithContext(ctx).Create(rider).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.RiderStatus) ([]models.Rider, error) {
	var riders []models.Rider
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&riders).Error; err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *repository) ListEligible(ctx context.Context, district string) ([]models.Rider, error) {
	var riders []models.Rider
	if err := r.db.WithContext(ctx).
		Where("district = ? AND status = ?", district, enums.RiderStatusActive).
		Order("created_at ASC").
		Find(&riders).Error; err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.RiderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *repository) AccrueEarning(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		Update("total_earnings", gorm.Expr("total_earnings + ?", amount)).Error
}

func (r *repository) SettleEarning(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		Update("settled_earnings", gorm.Expr("settled_earnings + ?", amount)).Error
}
