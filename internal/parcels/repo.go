package parcels

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	"github.com/parcelpoint/courier-backend/pkg/pagination"
)

// Repository manages persistence for parcels. Status flips are conditional on
// the expected prior state so concurrent transitions cannot both win; callers
// inspect the returned row count.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, parcel *models.Parcel) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error)
	FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error)
	ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error)
	ListByRider(ctx context.Context, riderID uuid.UUID, statuses ...enums.DeliveryStatus) ([]models.Parcel, error)
	ListPage(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Parcel, error)
	DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (int64, error)
	AssignRider(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error)
	MarkPickedUp(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error)
	MarkDelivered(ctx context.Context, id, riderID uuid.UUID, earning int, at time.Time) (int64, error)
	SettleCashout(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a parcel repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, parcel *models.Parcel) error {
	return r.db.WithContext(ctx).Create(parcel).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).
		Preload("Rider").
		First(&parcel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) FindByTrackingCode(ctx context.Context, trackingCode string) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).
		Preload("Rider").
		First(&parcel, "tracking_code = ?", trackingCode).Error; err != nil {
		return nil, err
	}
	return &parcel, nil
}

func (r *repository) ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error) {
	var parcels []models.Parcel
	if err := r.db.WithContext(ctx).
		Where("creator_email = ?", creatorEmail).
		Order("created_at DESC").
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *repository) ListByRider(ctx context.Context, riderID uuid.UUID, statuses ...enums.DeliveryStatus) ([]models.Parcel, error) {
	query := r.db.WithContext(ctx).Where("rider_id = ?", riderID)
	if len(statuses) > 0 {
		query = query.Where("delivery_status IN ?", statuses)
	}
	var parcels []models.Parcel
	if err := query.Order("created_at DESC").Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *repository) ListPage(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Parcel, error) {
	query := r.db.WithContext(ctx).Preload("Rider")
	if cursor != nil {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var parcels []models.Parcel
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&parcels).Error; err != nil {
		return nil, err
	}
	return parcels, nil
}

func (r *repository) DeleteUnpaid(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusUnpaid).
		Delete(&models.Parcel{})
	return result.RowsAffected, result.Error
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND payment_status = ?", id, enums.PaymentStatusUnpaid).
		Update("payment_status", enums.PaymentStatusPaid)
	return result.RowsAffected, result.Error
}

func (r *repository) AssignRider(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND delivery_status = ? AND payment_status = ?",
			id, enums.DeliveryStatusNotCollected, enums.PaymentStatusPaid).
		Updates(map[string]any{
			"delivery_status": enums.DeliveryStatusAssigned,
			"rider_id":        riderID,
			"assigned_at":     at,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) MarkPickedUp(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND rider_id = ? AND delivery_status = ?",
			id, riderID, enums.DeliveryStatusAssigned).
		Updates(map[string]any{
			"delivery_status": enums.DeliveryStatusInTransit,
			"picked_up_at":    at,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) MarkDelivered(ctx context.Context, id, riderID uuid.UUID, earning int, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND rider_id = ? AND delivery_status = ?",
			id, riderID, enums.DeliveryStatusInTransit).
		Updates(map[string]any{
			"delivery_status": enums.DeliveryStatusDelivered,
			"cashout_status":  enums.CashoutStatusPending,
			"earning_amount":  earning,
			"delivered_at":    at,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) SettleCashout(ctx context.Context, id, riderID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ? AND rider_id = ? AND delivery_status = ? AND cashout_status = ?",
			id, riderID, enums.DeliveryStatusDelivered, enums.CashoutStatusPending).
		Updates(map[string]any{
			"cashout_status": enums.CashoutStatusSettled,
			"cashed_out_at":  at,
		})
	return result.RowsAffected, result.Error
}
