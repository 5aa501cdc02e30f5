package models

import (
	"time"

	"github.com/google/uuid"

	"shopcore/pkg/enums"
)

// InventoryTransaction is an append-only signed stock movement against an
// inventory item.
type InventoryTransaction struct {
	ID              uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryItemID uuid.UUID                      `gorm:"column:inventory_item_id;type:uuid;not null"`
	Quantity        int                            `gorm:"column:quantity;not null"`
	Type            enums.InventoryTransactionType `gorm:"column:transaction_type;not null"`
	Reference       *string                        `gorm:"column:reference"`
	CreatedAt       time.Time                      `gorm:"column:created_at;autoCreateTime"`
}
