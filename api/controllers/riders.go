package controllers

import (
	"net/http"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/riders"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

type riderApplyRequest struct {
	Name                string `json:"name" validate:"required,min=2,max=120"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required,min=5,max=32"`
	Region              string `json:"region" validate:"required"`
	District            string `json:"district" validate:"required"`
	VehicleType         string `json:"vehicle_type" validate:"required,oneof=bicycle motorbike van"`
	VehicleRegistration string `json:"vehicle_registration" validate:"omitempty,max=32"`
}

// ApplyRider submits a rider application. Applications start pending and wait
// for an admin decision.
func ApplyRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}

		var req riderApplyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rider, err := svc.Apply(r.Context(), riders.ApplyInput{
			Name:                req.Name,
			Email:               req.Email,
			Phone:               req.Phone,
			Region:              req.Region,
			District:            req.District,
			VehicleType:         req.VehicleType,
			VehicleRegistration: req.VehicleRegistration,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, toRiderView(*rider))
	}
}
