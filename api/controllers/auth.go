package controllers

import (
	"net/http"

	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/users"
	"github.com/parcelpoint/courier-backend/pkg/enums"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=120"`
	Role        string `json:"role" validate:"omitempty,oneof=user rider"`
}

// Register creates a customer or rider account. Admin accounts are
// provisioned out of band and rejected here.
func Register(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.RoleUser
		if req.Role != "" {
			parsed, err := enums.ParseRole(req.Role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
			role = parsed
		}

		user, err := svc.Register(r.Context(), users.RegisterInput{
			Email:       req.Email,
			Password:    req.Password,
			DisplayName: req.DisplayName,
			Role:        role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, toUserView(*user))
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	User        userView `json:"user"`
}

func Login(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, loginResponse{
			AccessToken: result.AccessToken,
			User:        toUserView(*result.User),
		})
	}
}
