package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem holds one product per wishlist.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;uniqueIndex:idx_wishlist_items_wishlist_product"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_wishlist_items_wishlist_product"`
	AddedAt    time.Time `gorm:"column:added_at;autoCreateTime"`
}
