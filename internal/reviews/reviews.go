// Package reviews manages product ratings: one review per (product, user)
// pair, ratings bounded 1..5.
package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// SubmitInput carries a new review.
type SubmitInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	Rating    int       `json:"rating" validate:"gte=1,lte=5"`
	Comment   string    `json:"comment"`
}

// Service validates and persists reviews.
type Service struct {
	base   repo.Base
	writes *metrics.WriteMetrics
}

// NewService wires the reviews service.
func NewService(conn *gorm.DB, writes *metrics.WriteMetrics) *Service {
	return &Service{base: repo.NewBase(conn), writes: writes}
}

// Submit stores the review. A second review from the same user for the same
// product is rejected as a conflict.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*models.Review, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("review", "validation")
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.base.DB(ctx).Create(review).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("review", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("review")
	return review, nil
}

// Update edits the rating or comment of an existing review.
func (s *Service) Update(ctx context.Context, id uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		s.writes.IncRejected("review", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	result := s.base.DB(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "comment": comment})
	if result.Error != nil {
		return nil, mapWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return s.Get(ctx, id)
}

// Get loads a review by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.base.DB(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return nil, err
	}
	return &review, nil
}

// ListForProduct returns a product's reviews, newest first.
func (s *Service) ListForProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := s.base.DB(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.base.DB(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user already reviewed this product")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "rating out of range")
	default:
		return err
	}
}
