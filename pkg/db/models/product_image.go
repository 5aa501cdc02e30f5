package models

import (
	"github.com/google/uuid"
)

// ProductImage stores a reference into the external file store; resolving the
// reference to bytes is not this layer's concern.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ImageRef  string    `gorm:"column:image_ref;not null"`
	AltText   string    `gorm:"column:alt_text;not null;default:''"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
}
