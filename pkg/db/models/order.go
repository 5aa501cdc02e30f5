package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcore/pkg/enums"
)

// Order survives deletion of its user (the reference is nulled) but pins its
// shipping and billing addresses: those deletes are blocked while referenced.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Status            enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalAmount       decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	ShippingAddressID uuid.UUID         `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID  uuid.UUID         `gorm:"column:billing_address_id;type:uuid;not null"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments          []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
