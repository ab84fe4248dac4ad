package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/internal/riders"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

// AdminListRiders filters riders by recruitment status, defaulting to pending
// applications.
func AdminListRiders(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		status := enums.RiderStatusPending
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseRiderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid rider status"))
				return
			}
			status = parsed
		}

		list, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toRiderViews(list))
	}
}

// AdminEligibleRiders lists active riders covering a district, for the
// assignment picker.
func AdminEligibleRiders(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		list, err := svc.ListEligible(r.Context(), r.URL.Query().Get("district"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toRiderViews(list))
	}
}

// AdminApproveRider activates a pending application.
func AdminApproveRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderDecision(svc, logg, "active",
		func(r *http.Request, svc riders.Service, riderID uuid.UUID) error {
			return svc.Approve(r.Context(), riderID)
		})
}

// AdminRejectRider declines a pending application.
func AdminRejectRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderDecision(svc, logg, "rejected",
		func(r *http.Request, svc riders.Service, riderID uuid.UUID) error {
			return svc.Reject(r.Context(), riderID)
		})
}

// AdminDeactivateRider removes an active rider from the assignment pool.
func AdminDeactivateRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return riderDecision(svc, logg, "deactivated",
		func(r *http.Request, svc riders.Service, riderID uuid.UUID) error {
			return svc.Deactivate(r.Context(), riderID)
		})
}

func riderDecision(
	svc riders.Service,
	logg *logger.Logger,
	statusLabel string,
	apply func(r *http.Request, svc riders.Service, riderID uuid.UUID) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		riderID, err := parseUUIDParam(r, "riderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := apply(r, svc, riderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": statusLabel})
	}
}
