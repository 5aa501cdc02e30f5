package models

import (
	"github.com/google/uuid"
)

// ProductTag joins products to tags.
type ProductTag struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"column:tag_id;type:uuid;primaryKey"`
}
