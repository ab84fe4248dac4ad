package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/payments"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

type createIntentRequest struct {
	ParcelID uuid.UUID `json:"parcel_id" validate:"required"`
}

type intentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CreatePaymentIntent opens a gateway intent for the parcel's stored cost.
func CreatePaymentIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var req createIntentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateIntent(r.Context(), req.ParcelID, middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, intentResponse{
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			Amount:       intent.Amount,
			Currency:     intent.Currency,
		})
	}
}

type confirmPaymentRequest struct {
	ParcelID      uuid.UUID `json:"parcel_id" validate:"required"`
	Amount        int       `json:"amount" validate:"required,gt=0"`
	TransactionID string    `json:"transaction_id" validate:"required,min=4,max=128"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=card mobile_banking cash"`
}

// ConfirmPayment records a settled charge and flips the parcel to paid. The
// amount must equal the parcel's stored cost.
func ConfirmPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var req confirmPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Confirm(r.Context(), payments.ConfirmPaymentInput{
			ParcelID:      req.ParcelID,
			PayerEmail:    middleware.EmailFromContext(r.Context()),
			Amount:        req.Amount,
			TransactionID: req.TransactionID,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, toPaymentView(*record))
	}
}

// ListPayments returns the authenticated account's payment history.
func ListPayments(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		records, err := svc.ListByPayer(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]paymentView, 0, len(records))
		for _, record := range records {
			views = append(views, toPaymentView(record))
		}
		responses.WriteSuccess(w, http.StatusOK, views)
	}
}
