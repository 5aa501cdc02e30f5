package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem holds one variant per cart; adding the same variant again replaces
// the quantity in place rather than inserting a second row.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_variant"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}
