package inventory

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

// Repository persists warehouses, stock items, movements, and alerts.
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

// CreateWarehouse inserts a stock location.
func (r *Repository) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) (*models.Warehouse, error) {
	if err := r.DB(ctx).Create(warehouse).Error; err != nil {
		return nil, mapWriteError(err)
	}
	return warehouse, nil
}

// EnsureItem creates the stock row for the (variant, warehouse) pair if it is
// missing and returns the current row either way.
func (r *Repository) EnsureItem(ctx context.Context, variantID, warehouseID uuid.UUID) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		ID:          uuid.New(),
		VariantID:   variantID,
		WarehouseID: warehouseID,
	}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}, {Name: "warehouse_id"}},
		DoNothing: true,
	}).Create(item).Error
	if err != nil {
		return nil, mapWriteError(err)
	}
	return r.GetItemByPair(ctx, variantID, warehouseID)
}

// GetItem loads a stock row by id.
func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &item, nil
}

// GetItemByPair loads the stock row for a (variant, warehouse) pair.
func (r *Repository) GetItemByPair(ctx context.Context, variantID, warehouseID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.DB(ctx).
		First(&item, "variant_id = ? AND warehouse_id = ?", variantID, warehouseID).
		Error
	if err != nil {
		return nil, mapReadError(err)
	}
	return &item, nil
}

// AdjustQuantity applies a signed delta to the item, guarded so the stored
// quantity can never drop below zero. Returns the number of rows changed; zero
// means the guard rejected the delta (or the row is gone).
func (r *Repository) AdjustQuantity(ctx context.Context, itemID uuid.UUID, delta int) (int64, error) {
	result := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", itemID, delta).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"last_updated": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return 0, mapWriteError(result.Error)
	}
	return result.RowsAffected, nil
}

// RecordTransaction appends a movement row.
func (r *Repository) RecordTransaction(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	if err := r.DB(ctx).Create(txn).Error; err != nil {
		return nil, mapWriteError(err)
	}
	return txn, nil
}

// ListTransactions returns the movement history for an item, newest first.
func (r *Repository) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error) {
	var rows []models.InventoryTransaction
	err := r.DB(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertAlert creates or updates the single low-stock alert for an item.
func (r *Repository) UpsertAlert(ctx context.Context, alert *models.InventoryAlert) (*models.InventoryAlert, error) {
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "inventory_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"threshold", "is_active"}),
	}).Create(alert).Error
	if err != nil {
		return nil, mapWriteError(err)
	}
	return alert, nil
}

// GetAlert loads the alert attached to an item.
func (r *Repository) GetAlert(ctx context.Context, itemID uuid.UUID) (*models.InventoryAlert, error) {
	var alert models.InventoryAlert
	if err := r.DB(ctx).First(&alert, "inventory_item_id = ?", itemID).Error; err != nil {
		return nil, mapReadError(err)
	}
	return &alert, nil
}

// ListBreachedAlerts returns active alerts whose item quantity sits at or
// below the threshold.
func (r *Repository) ListBreachedAlerts(ctx context.Context) ([]models.InventoryAlert, error) {
	var rows []models.InventoryAlert
	err := r.DB(ctx).
		Joins("JOIN inventory_items ON inventory_items.id = inventory_alerts.inventory_item_id").
		Where("inventory_alerts.is_active = ? AND inventory_items.quantity <= inventory_alerts.threshold", true).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock row already exists")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity out of range")
	default:
		return err
	}
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inventory row not found")
	}
	return err
}
