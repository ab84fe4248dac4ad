package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

type partyRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Contact  string `json:"contact" validate:"required,min=5,max=32"`
	Region   string `json:"region" validate:"required"`
	District string `json:"district" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

type createParcelRequest struct {
	Type         string          `json:"type" validate:"required,oneof=document non-document"`
	WeightKG     decimal.Decimal `json:"weight_kg"`
	Sender       partyRequest    `json:"sender" validate:"required"`
	Receiver     partyRequest    `json:"receiver" validate:"required"`
	ProposedCost int             `json:"proposed_cost" validate:"required,gt=0"`
}

// CreateParcel books a shipment. The proposed cost must match the server-side
// quote or the booking is rejected.
func CreateParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		var req createParcelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcelType, err := enums.ParseParcelType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid parcel type"))
			return
		}

		parcel, err := svc.Create(r.Context(), parcels.CreateParcelInput{
			Type:         parcelType,
			WeightKG:     req.WeightKG,
			Sender:       toPartyInput(req.Sender),
			Receiver:     toPartyInput(req.Receiver),
			ProposedCost: req.ProposedCost,
			CreatorEmail: middleware.EmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, toParcelView(*parcel))
	}
}

// ListParcels returns the parcels booked by the authenticated account.
func ListParcels(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		list, err := svc.ListByCreator(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toParcelViews(list))
	}
}

// GetParcel returns one parcel. Customers only see their own bookings; the
// assigned rider and admins can always look it up.
func GetParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcelID, err := parseUUIDParam(r, "parcelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parcel, err := svc.Get(r.Context(), parcelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.EmailFromContext(r.Context())
		isAdmin := middleware.RoleFromContext(r.Context()) == string(enums.RoleAdmin)
		isCreator := strings.EqualFold(parcel.CreatorEmail, email)
		isAssignedRider := parcel.Rider != nil && strings.EqualFold(parcel.Rider.Email, email)
		if !isAdmin && !isCreator && !isAssignedRider {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "parcel does not belong to requester"))
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toParcelView(*parcel))
	}
}

// CancelParcel deletes an unpaid booking.
func CancelParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcelID, err := parseUUIDParam(r, "parcelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isAdmin := middleware.RoleFromContext(r.Context()) == string(enums.RoleAdmin)
		if err := svc.Cancel(r.Context(), parcelID, middleware.EmailFromContext(r.Context()), isAdmin); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

func toPartyInput(req partyRequest) parcels.PartyInput {
	return parcels.PartyInput{
		Name:     req.Name,
		Contact:  req.Contact,
		Region:   req.Region,
		District: req.District,
		Address:  req.Address,
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}
