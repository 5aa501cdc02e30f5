package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Purchasable configurations live on
// ProductVariant; the base price here is the anchor variant adjustments apply to.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;not null;uniqueIndex"`
	Description string            `gorm:"column:description;not null;default:''"`
	BrandID     *uuid.UUID        `gorm:"column:brand_id;type:uuid"`
	BasePrice   decimal.Decimal   `gorm:"column:base_price;type:numeric(10,2);not null"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	Brand       *Brand            `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL"`
	Images      []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories  []ProductCategory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Tags        []ProductTag      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
