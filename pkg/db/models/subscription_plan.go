package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan defines a recurring offering. A plan cannot be deleted
// while subscriptions reference it.
type SubscriptionPlan struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string          `gorm:"column:name;not null"`
	Description      string          `gorm:"column:description;not null;default:''"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	BillingCycleDays int             `gorm:"column:billing_cycle_days;not null"`
	IsActive         bool            `gorm:"column:is_active;not null;default:true"`
}
