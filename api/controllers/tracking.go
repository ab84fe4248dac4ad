package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/internal/parcels"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

type trackResponse struct {
	TrackingCode   string               `json:"tracking_code"`
	DeliveryStatus enums.DeliveryStatus `json:"delivery_status"`
	PaymentStatus  enums.PaymentStatus  `json:"payment_status"`
	Events         []trackingEventView  `json:"events"`
}

// TrackParcel is the public tracking endpoint. It exposes the ledger history
// without customer or cost details.
func TrackParcel(svc parcels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "parcels service unavailable"))
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "trackingCode"))
		result, err := svc.Track(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, trackResponse{
			TrackingCode:   result.Parcel.TrackingCode,
			DeliveryStatus: result.Parcel.DeliveryStatus,
			PaymentStatus:  result.Parcel.PaymentStatus,
			Events:         toTrackingEventViews(result.Events),
		})
	}
}
