package models

import (
	"github.com/google/uuid"
)

// Address is a postal address owned by a user. Orders keep protected
// references to addresses, so deleting one that an order points at is blocked
// by the schema.
type Address struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	AddressLine1 string    `gorm:"column:address_line1;not null"`
	AddressLine2 string    `gorm:"column:address_line2;not null;default:''"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	Country      string    `gorm:"column:country;not null"`
	PostalCode   string    `gorm:"column:postal_code;not null"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
}
