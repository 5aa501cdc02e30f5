package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is a purchasable configuration of a product, carrying its own
// SKU. PriceAdjustment is added to the product's base price.
type ProductVariant struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID               `gorm:"column:product_id;type:uuid;not null"`
	Name            string                  `gorm:"column:name;not null"`
	SKU             string                  `gorm:"column:sku;not null;uniqueIndex"`
	PriceAdjustment decimal.Decimal         `gorm:"column:price_adjustment;type:numeric(10,2);not null;default:0"`
	Weight          *decimal.Decimal        `gorm:"column:weight;type:numeric(8,2)"`
	Dimensions      string                  `gorm:"column:dimensions;not null;default:''"`
	IsActive        bool                    `gorm:"column:is_active;not null;default:true"`
	AttributeValues []ProductAttributeValue `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}
