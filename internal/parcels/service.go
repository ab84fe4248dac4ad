package parcels

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/internal/pricing"
	"github.com/parcelpoint/courier-backend/internal/riders"
	"github.com/parcelpoint/courier-backend/internal/tracking"
	"github.com/parcelpoint/courier-backend/pkg/db"
	"github.com/parcelpoint/courier-backend/pkg/db/models"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/pagination"
)

const trackingCodeAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the parcel lifecycle. Every transition applies its state flip
// and ledger append inside one transaction, guarded on the expected prior
// state, so a lost race surfaces as a state conflict instead of a double win.
type Service interface {
	Create(ctx context.Context, input CreateParcelInput) (*models.Parcel, error)
	Get(ctx context.Context, parcelID uuid.UUID) (*models.Parcel, error)
	ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error)
	ListPage(ctx context.Context, params pagination.Params) (*ParcelPage, error)
	Cancel(ctx context.Context, parcelID uuid.UUID, requesterEmail string, isAdmin bool) error
	Assign(ctx context.Context, parcelID, riderID uuid.UUID) error
	Pickup(ctx context.Context, parcelID, riderID uuid.UUID) error
	Deliver(ctx context.Context, parcelID, riderID uuid.UUID) error
	Cashout(ctx context.Context, parcelID, riderID uuid.UUID) error
	Track(ctx context.Context, trackingCode string) (*TrackResult, error)
	AssignedToRider(ctx context.Context, riderID uuid.UUID) ([]models.Parcel, error)
	CompletedByRider(ctx context.Context, riderID uuid.UUID) (*RiderEarnings, error)
}

type service struct {
	repo           Repository
	riders         riders.Repository
	tracking       tracking.Service
	tx             txRunner
	earningPercent int
	now            func() time.Time
}

// NewService builds a parcel service with the required dependencies.
func NewService(repo Repository, riderRepo riders.Repository, trackingSvc tracking.Service, tx txRunner, earningPercent int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("parcels repository required")
	}
	if riderRepo == nil {
		return nil, fmt.Errorf("riders repository required")
	}
	if trackingSvc == nil {
		return nil, fmt.Errorf("tracking service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if earningPercent <= 0 || earningPercent > 100 {
		return nil, fmt.Errorf("earning percent must be in (0,100], got %d", earningPercent)
	}
	return &service{
		repo:           repo,
		riders:         riderRepo,
		tracking:       trackingSvc,
		tx:             tx,
		earningPercent: earningPercent,
		now:            time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateParcelInput) (*models.Parcel, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid parcel type %q", input.Type))
	}
	creator := strings.ToLower(strings.TrimSpace(input.CreatorEmail))
	if creator == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator email is required")
	}
	sender, err := normalizeParty("sender", input.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := normalizeParty("receiver", input.Receiver)
	if err != nil {
		return nil, err
	}

	sameRegion := sender.Region == receiver.Region
	quote := pricing.ComputeCost(input.Type, input.WeightKG, sameRegion)
	if quote.Total != input.ProposedCost {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost mismatch").
			WithDetails(map[string]any{
				"proposed":   input.ProposedCost,
				"recomputed": quote.Total,
			})
	}

	weight := input.WeightKG
	if input.Type == enums.ParcelTypeDocument || weight.IsNegative() {
		weight = decimal.Zero
	}

	parcel := &models.Parcel{
		Type:             input.Type,
		WeightKG:         weight,
		SenderName:       sender.Name,
		SenderContact:    sender.Contact,
		SenderRegion:     sender.Region,
		SenderDistrict:   sender.District,
		SenderAddress:    sender.Address,
		ReceiverName:     receiver.Name,
		ReceiverContact:  receiver.Contact,
		ReceiverRegion:   receiver.Region,
		ReceiverDistrict: receiver.District,
		ReceiverAddress:  receiver.Address,
		CostBase:         quote.Base,
		CostWeight:       quote.WeightSurcharge,
		CostRegion:       quote.RegionSurcharge,
		CostTotal:        quote.Total,
		DeliveryStatus:   enums.DeliveryStatusNotCollected,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		CashoutStatus:    enums.CashoutStatusNone,
		CreatorEmail:     creator,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var createErr error
		for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
			code, codeErr := NewTrackingCode(s.now())
			if codeErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, codeErr, "generate tracking code")
			}
			parcel.TrackingCode = code
			createErr = repo.Create(ctx, parcel)
			if createErr == nil {
				break
			}
			if !db.IsUniqueViolation(createErr, "") {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create parcel")
			}
		}
		if createErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "allocate tracking code")
		}

		_, appendErr := s.tracking.WithTx(tx).Append(ctx, tracking.AppendEventInput{
			TrackingCode: parcel.TrackingCode,
			Status:       enums.TrackingStatusParcelCreated,
			Message:      "Parcel booked and awaiting payment",
			Location:     &parcel.SenderRegion,
		})
		if appendErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, appendErr, "append creation event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return parcel, nil
}

func (s *service) Get(ctx context.Context, parcelID uuid.UUID) (*models.Parcel, error) {
	if parcelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "parcel id required")
	}
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}
	return parcel, nil
}

func (s *service) ListByCreator(ctx context.Context, creatorEmail string) ([]models.Parcel, error) {
	creator := strings.ToLower(strings.TrimSpace(creatorEmail))
	if creator == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator email is required")
	}
	parcels, err := s.repo.ListByCreator(ctx, creator)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parcels")
	}
	return parcels, nil
}

func (s *service) ListPage(ctx context.Context, params pagination.Params) (*ParcelPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPage(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parcels")
	}

	page := &ParcelPage{Parcels: rows}
	if len(rows) > limit {
		page.Parcels = rows[:limit]
		last := page.Parcels[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// Cancel deletes an unpaid parcel. Paid parcels are already in the money flow
// and can no longer be cancelled.
func (s *service) Cancel(ctx context.Context, parcelID uuid.UUID, requesterEmail string, isAdmin bool) error {
	if parcelID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id required")
	}

	parcel, err := s.Get(ctx, parcelID)
	if err != nil {
		return err
	}
	if !isAdmin && !strings.EqualFold(parcel.CreatorEmail, strings.TrimSpace(requesterEmail)) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "parcel does not belong to requester")
	}
	if parcel.PaymentStatus != enums.PaymentStatusUnpaid {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid parcels cannot be cancelled")
	}

	deleted, err := s.repo.DeleteUnpaid(ctx, parcelID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete parcel")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "paid parcels cannot be cancelled")
	}
	return nil
}

// Assign hands a paid, uncollected parcel to an active rider covering the
// sender's district.
func (s *service) Assign(ctx context.Context, parcelID, riderID uuid.UUID) error {
	if parcelID == uuid.Nil || riderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id and rider id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		riderRepo := s.riders.WithTx(tx)

		parcel, err := repo.FindByID(ctx, parcelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}
		if parcel.PaymentStatus != enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel must be paid before assignment")
		}
		if parcel.DeliveryStatus != enums.DeliveryStatusNotCollected {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel already assigned")
		}

		rider, err := riderRepo.FindByID(ctx, riderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
		}
		if rider.Status != enums.RiderStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "rider is not active")
		}
		if rider.District != parcel.SenderDistrict {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "rider does not cover the sender district")
		}

		updated, err := repo.AssignRider(ctx, parcelID, riderID, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign rider")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parcel state changed, retry assignment")
		}

		_, err = s.tracking.WithTx(tx).Append(ctx, tracking.AppendEventInput{
			TrackingCode: parcel.TrackingCode,
			Status:       enums.TrackingStatusRiderAssigned,
			Message:      fmt.Sprintf("Rider %s assigned for pickup", rider.Name),
			Location:     &parcel.SenderDistrict,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append assignment event")
		}
		return nil
	})
}

func (s *service) Pickup(ctx context.Context, parcelID, riderID uuid.UUID) error {
	if parcelID == uuid.Nil || riderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id and rider id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		parcel, err := repo.FindByID(ctx, parcelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}

		updated, err := repo.MarkPickedUp(ctx, parcelID, riderID, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark picked up")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pickup is only allowed on parcels assigned to you")
		}

		_, err = s.tracking.WithTx(tx).Append(ctx, tracking.AppendEventInput{
			TrackingCode: parcel.TrackingCode,
			Status:       enums.TrackingStatusInTransit,
			Message:      "Parcel picked up and in transit",
			Location:     &parcel.SenderDistrict,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append pickup event")
		}
		return nil
	})
}

// Deliver completes the run: flips the parcel to delivered, fixes the rider's
// earning from the stored cost, and accrues it on the rider record.
func (s *service) Deliver(ctx context.Context, parcelID, riderID uuid.UUID) error {
	if parcelID == uuid.Nil || riderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id and rider id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		parcel, err := repo.FindByID(ctx, parcelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}

		earning := parcel.CostTotal * s.earningPercent / 100

		updated, err := repo.MarkDelivered(ctx, parcelID, riderID, earning, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark delivered")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery is only allowed on parcels you are transporting")
		}

		if err := s.riders.WithTx(tx).AccrueEarning(ctx, riderID, earning); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accrue rider earning")
		}

		_, err = s.tracking.WithTx(tx).Append(ctx, tracking.AppendEventInput{
			TrackingCode: parcel.TrackingCode,
			Status:       enums.TrackingStatusDelivered,
			Message:      "Parcel delivered to receiver",
			Location:     &parcel.ReceiverDistrict,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append delivery event")
		}
		return nil
	})
}

// Cashout settles the rider's earning on one delivered parcel exactly once.
func (s *service) Cashout(ctx context.Context, parcelID, riderID uuid.UUID) error {
	if parcelID == uuid.Nil || riderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "parcel id and rider id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		parcel, err := repo.FindByID(ctx, parcelID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
		}

		updated, err := repo.SettleCashout(ctx, parcelID, riderID, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle cashout")
		}
		if updated == 0 {
			if parcel.CashoutStatus == enums.CashoutStatusSettled {
				return pkgerrors.New(pkgerrors.CodeIdempotency, "parcel earning already cashed out")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cashout is only allowed on your delivered parcels")
		}

		earning := 0
		if parcel.EarningAmount != nil {
			earning = *parcel.EarningAmount
		}
		if err := s.riders.WithTx(tx).SettleEarning(ctx, riderID, earning); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle rider earning")
		}
		return nil
	})
}

// Track returns the parcel plus its ledger history in ascending order. A
// missing parcel is a not-found even when stray ledger rows exist for the code.
func (s *service) Track(ctx context.Context, trackingCode string) (*TrackResult, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}

	parcel, err := s.repo.FindByTrackingCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parcel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parcel")
	}

	events, err := s.tracking.History(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking history")
	}

	return &TrackResult{Parcel: parcel, Events: events}, nil
}

func (s *service) AssignedToRider(ctx context.Context, riderID uuid.UUID) ([]models.Parcel, error) {
	if riderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rider id required")
	}
	parcels, err := s.repo.ListByRider(ctx, riderID, enums.DeliveryStatusAssigned, enums.DeliveryStatusInTransit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rider parcels")
	}
	return parcels, nil
}

func (s *service) CompletedByRider(ctx context.Context, riderID uuid.UUID) (*RiderEarnings, error) {
	if riderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rider id required")
	}

	delivered, err := s.repo.ListByRider(ctx, riderID, enums.DeliveryStatusDelivered)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivered parcels")
	}

	rider, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rider")
	}

	return &RiderEarnings{
		Delivered: delivered,
		Total:     rider.TotalEarnings,
		Settled:   rider.SettledEarnings,
	}, nil
}

func normalizeParty(label string, party PartyInput) (PartyInput, error) {
	out := PartyInput{
		Name:     strings.TrimSpace(party.Name),
		Contact:  strings.TrimSpace(party.Contact),
		Region:   strings.TrimSpace(party.Region),
		District: strings.TrimSpace(party.District),
		Address:  strings.TrimSpace(party.Address),
	}
	if out.Name == "" {
		return out, pkgerrors.New(pkgerrors.CodeValidation, label+" name is required")
	}
	if out.Region == "" {
		return out, pkgerrors.New(pkgerrors.CodeValidation, label+" region is required")
	}
	if out.District == "" {
		return out, pkgerrors.New(pkgerrors.CodeValidation, label+" district is required")
	}
	return out, nil
}
