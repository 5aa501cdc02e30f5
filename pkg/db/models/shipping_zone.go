package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ShippingZone groups destination countries priced together.
type ShippingZone struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Countries pq.StringArray `gorm:"column:countries;type:text[];not null;default:ARRAY[]::text[]"`
}
