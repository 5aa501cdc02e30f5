package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	"shopcore/pkg/enums"
	pkgerrors "shopcore/pkg/errors"
)

// Repository persists orders, their items, and payment attempts.
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

// Create inserts the order header.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB(ctx).Create(order).Error; err != nil {
		return nil, mapWriteError(err)
	}
	return order, nil
}

// CreateItems inserts the order lines.
func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.DB(ctx).Create(&items).Error; err != nil {
		return mapWriteError(err)
	}
	return nil
}

// Get loads an order with items and payments.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB(ctx).
		Preload("Items").
		Preload("Payments").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, mapReadError(err)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatusFrom moves the order's status with a compare-and-set on the
// current value, so a concurrent transition cannot be overwritten. Zero rows
// affected means the stored status no longer matches from.
func (r *Repository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return 0, mapWriteError(result.Error)
	}
	return result.RowsAffected, nil
}

// CreatePayment inserts a gateway attempt.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.DB(ctx).Create(payment).Error; err != nil {
		return nil, mapWriteError(err)
	}
	return payment, nil
}

// GetPayment loads a payment by id.
func (r *Repository) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &payment, nil
}

// UpdatePaymentStatusFrom moves the payment's status with a compare-and-set.
func (r *Repository) UpdatePaymentStatusFrom(ctx context.Context, id uuid.UUID, from, to enums.PaymentStatus) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return 0, mapWriteError(result.Error)
	}
	return result.RowsAffected, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "transaction id already recorded")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order write out of range")
	default:
		return err
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order row not found")
	}
	return err
}
