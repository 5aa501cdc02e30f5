package customers

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

// Repository persists users, customer profiles, and addresses.
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

// CreateUser inserts an account row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, mapWriteError(err, "email already registered")
	}
	return user, nil
}

// GetUser loads a user by id.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err, "user not found")
	}
	return &user, nil
}

// DeleteUser removes the account; profile, addresses, carts, and reviews
// cascade, while past orders survive with a nulled user reference.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.User{}).Error
}

// CreateProfile inserts the commerce profile, one per user.
func (r *Repository) CreateProfile(ctx context.Context, profile *models.CustomerProfile) (*models.CustomerProfile, error) {
	if err := r.DB(ctx).Create(profile).Error; err != nil {
		return nil, mapWriteError(err, "user already has a profile")
	}
	return profile, nil
}

// GetProfileByUser loads the profile belonging to a user.
func (r *Repository) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	if err := r.DB(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, mapReadError(err, "profile not found")
	}
	return &profile, nil
}

// CreateAddress inserts an address row.
func (r *Repository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.DB(ctx).Create(address).Error; err != nil {
		return nil, mapWriteError(err, "address insert rejected")
	}
	return address, nil
}

// GetAddress loads an address by id.
func (r *Repository) GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err, "address not found")
	}
	return &address, nil
}

// ListAddresses returns the user's addresses, default first.
func (r *Repository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var rows []models.Address
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClearDefaultAddress unsets the default flag on all of the user's addresses.
func (r *Repository) ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).
		Error
}

// MarkDefaultAddress flags one address as the default.
func (r *Repository) MarkDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Update("is_default", true)
	return result.RowsAffected, result.Error
}

// DeleteAddress removes an address. Deletes are blocked by the schema while
// any order still points at the row; that failure surfaces as a protected
// reference.
func (r *Repository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	err := r.DB(ctx).Where("id = ?", id).Delete(&models.Address{}).Error
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeProtected, err, "address is referenced by an order")
		}
		return err
	}
	return nil
}

func mapWriteError(err error, conflictMessage string) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflictMessage)
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "value out of range")
	default:
		return err
	}
}

func mapReadError(err error, notFoundMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMessage)
	}
	return err
}
