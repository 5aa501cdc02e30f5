package promotions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
)

// Repository persists coupons.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts a coupon.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := r.DB(ctx).Create(coupon).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, err
	}
	return coupon, nil
}

// GetByCode loads a coupon by its code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.DB(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "coupon not found")
		}
		return nil, err
	}
	return &coupon, nil
}

// IncrementUsage bumps times_used, guarded against exceeding max_uses for
// capped coupons. Zero rows affected means the cap is already reached.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR times_used < max_uses)", id).
		Update("times_used", gorm.Expr("times_used + 1"))
	return result.RowsAffected, result.Error
}

// Delete removes a coupon.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Coupon{}).Error
}
