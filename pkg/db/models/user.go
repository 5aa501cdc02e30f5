package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account identity rows in this schema hang off of. Credential
// handling and sessions belong to the surrounding platform, so only the
// identity column set lives here.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
