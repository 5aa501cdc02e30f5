package models

import (
	"github.com/google/uuid"
)

// ProductCategory joins products to catalog categories. The composite primary
// key doubles as the uniqueness constraint on the pair.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
}
