package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopcore/pkg/enums"
)

// Payment records a gateway attempt against an order. The transaction id is
// supplied by the external gateway and must be globally unique.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Method        string              `gorm:"column:payment_method;not null"`
	TransactionID string              `gorm:"column:transaction_id;not null;uniqueIndex"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
