package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerProfile extends a user with commerce-facing details, one per user.
type CustomerProfile struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PhoneNumber string     `gorm:"column:phone_number;not null;default:''"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth;type:date"`
}
