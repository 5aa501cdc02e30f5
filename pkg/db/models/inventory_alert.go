package models

import (
	"github.com/google/uuid"
)

// InventoryAlert is a low-stock threshold, at most one per inventory item.
type InventoryAlert struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryItemID uuid.UUID `gorm:"column:inventory_item_id;type:uuid;not null;uniqueIndex"`
	Threshold       int       `gorm:"column:threshold;not null"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
}
