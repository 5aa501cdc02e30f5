package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
)

// Repository persists carts and their line items.
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

// Create inserts a cart row. The schema requires an owner: a user, a session,
// or both.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.DB(ctx).Create(cart).Error; err != nil {
		return nil, mapWriteError(err)
	}
	return cart, nil
}

// Get loads a cart with its items.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).Preload("Items").First(&cart, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &cart, nil
}

// FindByUser returns the user's open cart, if any.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &cart, nil
}

// FindBySession returns the anonymous cart for a session, if any.
func (r *Repository) FindBySession(ctx context.Context, sessionID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).Preload("Items").First(&cart, "session_id = ?", sessionID).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &cart, nil
}

// UpsertItem adds the variant to the cart. When the cart already holds the
// variant the stored quantity is replaced, not incremented.
func (r *Repository) UpsertItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(item).Error
	if err != nil {
		return nil, mapWriteError(err)
	}
	var stored models.CartItem
	err = r.DB(ctx).
		First(&stored, "cart_id = ? AND variant_id = ?", item.CartID, item.VariantID).
		Error
	if err != nil {
		return nil, mapReadError(err)
	}
	return &stored, nil
}

// RemoveItem deletes one variant line from the cart.
func (r *Repository) RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) (int64, error) {
	result := r.DB(ctx).
		Where("cart_id = ? AND variant_id = ?", cartID, variantID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearItems empties the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.DB(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Delete removes a cart and, through the schema, its items.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Cart{}).Error
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user already has an open cart")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart write out of range")
	default:
		return err
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart row not found")
	}
	return err
}
