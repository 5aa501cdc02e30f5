package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a discount code. TimesUsed is an informational counter; the
// redemption guard that compares it against MaxUses lives in the promotions
// service, not in the schema.
type Coupon struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string           `gorm:"column:code;not null;uniqueIndex"`
	Description       string           `gorm:"column:description;not null;default:''"`
	DiscountValue     decimal.Decimal  `gorm:"column:discount_value;type:numeric(10,2);not null"`
	IsPercentage      bool             `gorm:"column:is_percentage;not null;default:false"`
	MinPurchaseAmount *decimal.Decimal `gorm:"column:min_purchase_amount;type:numeric(10,2)"`
	ValidFrom         time.Time        `gorm:"column:valid_from;not null"`
	ValidTo           time.Time        `gorm:"column:valid_to;not null"`
	MaxUses           *int             `gorm:"column:max_uses"`
	TimesUsed         int              `gorm:"column:times_used;not null;default:0"`
}
