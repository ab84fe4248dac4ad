package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/internal/riders"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

// riderIdentity resolves the rider record behind the authenticated account.
// Accounts with the rider role but no approved application get a 404.
func riderIdentity(r *http.Request, riderSvc riders.Service) (uuid.UUID, error) {
	rider, err := riderSvc.GetByEmail(r.Context(), middleware.EmailFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, err
	}
	return rider.ID, nil
}

// RiderAssignedParcels lists the rider's open workload (assigned and
// in-transit parcels).
func RiderAssignedParcels(svc parcels.Service, riderSvc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || riderSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		riderID, err := riderIdentity(r, riderSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.AssignedToRider(r.Context(), riderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toParcelViews(list))
	}
}

type riderEarningsResponse struct {
	Delivered []parcelView `json:"delivered"`
	Total     int          `json:"total_earnings"`
	Settled   int          `json:"settled_earnings"`
}

// RiderCompletedParcels lists delivered parcels with the earning summary.
func RiderCompletedParcels(svc parcels.Service, riderSvc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || riderSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		riderID, err := riderIdentity(r, riderSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		earnings, err := svc.CompletedByRider(r.Context(), riderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, riderEarningsResponse{
			Delivered: toParcelViews(earnings.Delivered),
			Total:     earnings.Total,
			Settled:   earnings.Settled,
		})
	}
}

// RiderPickupParcel moves an assigned parcel into transit.
func RiderPickupParcel(svc parcels.Service, riderSvc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderTransition(svc, riderSvc, logg, "picked up",
		func(r *http.Request, svc parcels.Service, parcelID, riderID uuid.UUID) error {
			return svc.Pickup(r.Context(), parcelID, riderID)
		})
}

// RiderDeliverParcel completes the delivery and accrues the rider's earning.
func RiderDeliverParcel(svc parcels.Service, riderSvc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderTransition(svc, riderSvc, logg, "delivered",
		func(r *http.Request, svc parcels.Service, parcelID, riderID uuid.UUID) error {
			return svc.Deliver(r.Context(), parcelID, riderID)
		})
}

// RiderCashoutParcel settles the earning for one delivered parcel. A repeat
// call is rejected as an idempotency conflict, never paid twice.
func RiderCashoutParcel(svc parcels.Service, riderSvc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderTransition(svc, riderSvc, logg, "cashed out",
		func(r *http.Request, svc parcels.Service, parcelID, riderID uuid.UUID) error {
			return svc.Cashout(r.Context(), parcelID, riderID)
		})
}

func riderTransition(
	svc parcels.Service,
	riderSvc riders.Service,
	logg *logger.Logger,
	statusLabel string,
	apply func(r *http.Request, svc parcels.Service, parcelID, riderID uuid.UUID) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || riderSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		parcelID, err := parseUUIDParam(r, "parcelId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		riderID, err := riderIdentity(r, riderSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(r, svc, parcelID, riderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": statusLabel})
	}
}
