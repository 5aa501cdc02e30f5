package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
	"shopcore/pkg/enums"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// ApplyTransactionInput describes a signed stock movement.
type ApplyTransactionInput struct {
	InventoryItemID uuid.UUID                      `json:"inventory_item_id" validate:"required"`
	Quantity        int                            `json:"quantity" validate:"required"`
	Type            enums.InventoryTransactionType `json:"type" validate:"required"`
	Reference       *string                        `json:"reference"`
}

// SetAlertInput configures the low-stock alert for an item.
type SetAlertInput struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" validate:"required"`
	Threshold       int       `json:"threshold" validate:"gte=0"`
	IsActive        bool      `json:"is_active"`
}

// Service owns the stock write path: every quantity change flows through a
// recorded movement, and the on-hand number can never go negative.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
}

// NewService wires the inventory service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
	}
}

// EnsureItem returns the stock row for the pair, creating it at zero quantity
// when absent.
func (s *Service) EnsureItem(ctx context.Context, variantID, warehouseID uuid.UUID) (*models.InventoryItem, error) {
	return s.repo.EnsureItem(ctx, variantID, warehouseID)
}

// ApplyTransaction records the movement and adjusts the item quantity in one
// transaction. A delta that would push the quantity negative is rejected with
// a conflict and nothing is written.
func (s *Service) ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*models.InventoryTransaction, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("inventory_transaction", "validation")
		return nil, err
	}
	if !input.Type.IsValid() {
		s.writes.IncRejected("inventory_transaction", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type")
	}

	movement := &models.InventoryTransaction{
		ID:              uuid.New(),
		InventoryItemID: input.InventoryItemID,
		Quantity:        input.Quantity,
		Type:            input.Type,
		Reference:       input.Reference,
	}

	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		affected, err := txRepo.AdjustQuantity(ctx, input.InventoryItemID, input.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			if _, getErr := txRepo.GetItem(ctx, input.InventoryItemID); getErr != nil {
				return getErr
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for movement").
				WithDetails(map[string]any{"delta": input.Quantity})
		}

		_, err = txRepo.RecordTransaction(ctx, movement)
		return err
	})
	if err != nil {
		s.writes.IncRejected("inventory_transaction", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("inventory_transaction")
	s.log.Info(s.log.WithEntity(ctx, "inventory_transaction"), "stock movement applied")
	return movement, nil
}

// SetAlert creates or replaces the low-stock alert for an item.
func (s *Service) SetAlert(ctx context.Context, input SetAlertInput) (*models.InventoryAlert, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("inventory_alert", "validation")
		return nil, err
	}
	alert := &models.InventoryAlert{
		ID:              uuid.New(),
		InventoryItemID: input.InventoryItemID,
		Threshold:       input.Threshold,
		IsActive:        input.IsActive,
	}
	if _, err := s.repo.UpsertAlert(ctx, alert); err != nil {
		s.writes.IncRejected("inventory_alert", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("inventory_alert")
	return alert, nil
}

// BreachedAlerts lists the active alerts currently at or below threshold.
func (s *Service) BreachedAlerts(ctx context.Context) ([]models.InventoryAlert, error) {
	return s.repo.ListBreachedAlerts(ctx)
}
