package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/internal/tracking"
	"github.com/parcelpoint/courier-backend/pkg/db"
	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/stripe"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IntentCreator registers a charge with the payment gateway.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, in stripe.IntentInput) (*stripe.Intent, error)
}

// Service reconciles external charges against parcels. Confirmation writes the
// payment record and flips the parcel's payment status in one transaction, so
// a paid parcel without a record (or the reverse) cannot be observed.
type Service interface {
	CreateIntent(ctx context.Context, parcelID uuid.UUID, payerEmail string) (*stripe.Intent, error)
	Confirm(ctx context.Context, input ConfirmPaymentInput) (*models.PaymentRecord, error)
	ListByPayer(ctx context.Context, payerEmail string) ([]models.PaymentRecord, error)
}

type service struct {
	repo     Repository
	parcels  parcels.Repository
	tracking tracking.Service
	gateway  IntentCreator
	tx       txRunner
}

// ConfirmPaymentInput captures a gateway confirmation callback.
type ConfirmPaymentInput struct {
	ParcelID      uuid.UUID
	PayerEmail    string
	Amount        int
	TransactionID string
	PaymentMethod string
}

// NewService builds a payment service with the required dependencies.
func NewService(repo Repository, parcelRepo parcels.Repository, trackingSvc tracking.Service, gateway IntentCreator, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if parcelRepo == nil {
		return nil, fmt.Errorf("parcels repository required")
	}
	if trackingSvc == nil {
		return nil, fmt.Errorf("tracking service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		parcels:  parcelRepo,
		tracking: trackingSvc,
		gateway:  gateway,
		tx:       tx,
	}, nil
}

// CreateIntent quotes the gateway from the parcel's stored cost, never from a
// client-supplied amount.
func (s *service) CreateIntent(ctx context.Context, parcelID uuid.UUID, payerEmail string) (*stripe.Intent, error) {
	if parcelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id required")
	}

	parcel, err := s.parcels.FindByID(ctx, parcelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}
	if parcel.PaymentStatus != enums.PaymentStatusUnpaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "parcel is already paid")
	}

	return s.gateway.CreatePaymentIntent(ctx, stripe.IntentInput{
		Amount:       int64(parcel.CostTotal),
		TrackingCode: parcel.TrackingCode,
		PayerEmail:   strings.ToLower(strings.TrimSpace(payerEmail)),
	})
}

func (s *service) Confirm(ctx context.Context, input ConfirmPaymentInput) (*models.PaymentRecord, error) {
	if input.ParcelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id required")
	}
	payer := strings.ToLower(strings.TrimSpace(input.PayerEmail))
	if payer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payer email is required")
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	record := &models.PaymentRecord{
		ParcelID:      input.ParcelID,
		PayerEmail:    payer,
		Amount:        input.Amount,
		TransactionID: strings.TrimSpace(input.TransactionID),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		parcelRepo := s.parcels.WithTx(tx)

		parcel, err := parcelRepo.FindByID(ctx, input.ParcelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}
		if input.Amount != parcel.CostTotal {
			return pkgerrors.New(pkgerrors.CodeValidation, "amount mismatch").
				WithDetails(map[string]any{
					"amount": input.Amount,
					"cost":   parcel.CostTotal,
				})
		}

		updated, err := parcelRepo.MarkPaid(ctx, input.ParcelID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark parcel paid")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel is already paid")
		}

		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "payment already recorded for this parcel or transaction")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment record")
		}

		_, err = s.tracking.WithTx(tx).Append(ctx, tracking.AppendEventInput{
			TrackingCode: parcel.TrackingCode,
			Status:       enums.TrackingStatusPaymentConfirmed,
			Message:      "Payment confirmed, parcel queued for assignment",
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append payment event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) ListByPayer(ctx context.Context, payerEmail string) ([]models.PaymentRecord, error) {
	payer := strings.ToLower(strings.TrimSpace(payerEmail))
	if payer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payer email is required")
	}
	records, err := s.repo.ListByPayer(ctx, payer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return records, nil
}
