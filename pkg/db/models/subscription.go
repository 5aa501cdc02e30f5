package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription enrolls a user in a plan for a date window.
type Subscription struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	PlanID    uuid.UUID `gorm:"column:plan_id;type:uuid;not null"`
	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
}
