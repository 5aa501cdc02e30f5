package models

import (
	"github.com/google/uuid"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"column:name;not null"`
	Address string    `gorm:"column:address;not null;default:''"`
}
