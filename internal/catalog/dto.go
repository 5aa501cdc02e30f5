package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the validated fields for a new product.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Slug        string          `json:"slug" validate:"required"`
	Description string          `json:"description"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"required"`
	IsActive    bool            `json:"is_active"`
	CategoryIDs []uuid.UUID     `json:"category_ids"`
	TagIDs      []uuid.UUID     `json:"tag_ids"`
}

// CreateVariantInput carries the validated fields for a new product variant.
type CreateVariantInput struct {
	ProductID       uuid.UUID        `json:"product_id" validate:"required"`
	Name            string           `json:"name" validate:"required"`
	SKU             string           `json:"sku" validate:"required"`
	PriceAdjustment decimal.Decimal  `json:"price_adjustment"`
	Weight          *decimal.Decimal `json:"weight"`
	Dimensions      string           `json:"dimensions"`
	IsActive        bool             `json:"is_active"`
}

// CreateDigitalProductInput attaches download metadata to a product.
type CreateDigitalProductInput struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	FileRef       string    `json:"file_ref" validate:"required"`
	FileSize      int64     `json:"file_size" validate:"gte=0"`
	DownloadLimit *int      `json:"download_limit" validate:"omitempty,gte=1"`
}
