package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks on-hand quantity per (variant, warehouse) pair. The
// quantity never goes negative; signed movements are recorded separately as
// InventoryTransaction rows.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID   uuid.UUID `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_inventory_variant_warehouse"`
	WarehouseID uuid.UUID `gorm:"column:warehouse_id;type:uuid;not null;uniqueIndex:idx_inventory_variant_warehouse"`
	Quantity    int       `gorm:"column:quantity;not null;default:0"`
	LastUpdated time.Time `gorm:"column:last_updated;autoUpdateTime"`
}
