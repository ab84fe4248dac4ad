package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
	"github.com/parcelpoint/courier-backend/pkg/pagination"
)

type parcelPageResponse struct {
	Items  []parcelView `json:"items"`
	Cursor string       `json:"cursor,omitempty"`
}

// AdminListParcels returns the cursor-paginated booking feed across all
// customers.
func AdminListParcels(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPage(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, parcelPageResponse{
			Items:  toParcelViews(page.Parcels),
			Cursor: page.NextCursor,
		})
	}
}

type assignParcelRequest struct {
	RiderID uuid.UUID `json:"rider_id" validate:"required"`
}

// AdminAssignParcel hands a paid, not yet collected parcel to an active rider
// covering the sender's district.
func AdminAssignParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req assignParcelRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Assign(r.Context(), parcelID, req.RiderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "assigned"})
	}
}
