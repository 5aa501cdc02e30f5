package models

import (
	"github.com/google/uuid"
)

// Brand is a product manufacturer or label.
type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	LogoRef     *string   `gorm:"column:logo_ref"`
}
