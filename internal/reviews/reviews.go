package reviews

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/parcelpoint/courier-backend/pkg/db/models"
	pkgerrors "github.com/parcelpoint/courier-backend/pkg/errors"
)

// Repository manages persistence for customer reviews.
type Repository interface {
	Create(ctx context.Context, review *models.Review) error
	List(ctx context.Context) ([]models.Review, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a review repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) List(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Service exposes the public review surface.
type Service interface {
	Create(ctx context.Context, input CreateReviewInput) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
}

type service struct {
	repo Repository
}

// CreateReviewInput captures a submitted review.
type CreateReviewInput struct {
	ReviewerName  string
	ReviewerEmail string
	Rating        int
	Comment       string
}

// NewService wires a review service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateReviewInput) (*models.Review, error) {
	name := strings.TrimSpace(input.ReviewerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer name is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	review := &models.Review{
		ReviewerName:  name,
		ReviewerEmail: strings.ToLower(strings.TrimSpace(input.ReviewerEmail)),
		Rating:        input.Rating,
		Comment:       strings.TrimSpace(input.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return reviews, nil
}
