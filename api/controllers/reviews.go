package controllers

import (
	"net/http"

	"github.com/parcelpoint/courier-backend/api/middleware"
	"github.com/parcelpoint/courier-backend/api/responses"
	"github.com/parcelpoint/courier-backend/api/validators"
	"github.com/parcelpoint/courier-backend/internal/reviews"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
	"github.com/parcelpoint/courier-backend/pkg/logger"
)

// ListReviews powers the public landing page testimonials.
func ListReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, toReviewViews(list))
	}
}

type createReviewRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// CreateReview records feedback from an authenticated customer.
func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		var req createReviewRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), reviews.CreateReviewInput{
			ReviewerName:  req.Name,
			ReviewerEmail: middleware.EmailFromContext(r.Context()),
			Rating:        req.Rating,
			Comment:       req.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, reviewView{
			ID:           review.ID,
			ReviewerName: review.ReviewerName,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt,
		})
	}
}
