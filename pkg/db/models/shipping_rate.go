package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRate prices a method for a zone, one rate per (method, zone) pair.
type ShippingRate struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShippingMethodID uuid.UUID       `gorm:"column:shipping_method_id;type:uuid;not null;uniqueIndex:idx_shipping_rates_method_zone"`
	ZoneID           uuid.UUID       `gorm:"column:zone_id;type:uuid;not null;uniqueIndex:idx_shipping_rates_method_zone"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}
