package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
)

// Repository manages persistence for payment records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindByParcelID(ctx context.Context, parcelID uuid.UUID) (*models.PaymentRecord, error)
	ListByPayer(ctx context.Context, payerEmail string) ([]models.PaymentRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByParcelID(ctx context.Context, parcelID uuid.UUID) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).First(&record, "parcel_id = ?", parcelID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByPayer(ctx context.Context, payerEmail string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("payer_email = ?", payerEmail).
		Order("paid_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
