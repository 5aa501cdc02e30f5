package models

import (
	"github.com/google/uuid"
)

// Tag is a free-form label attachable to products.
type Tag struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"column:name;not null;uniqueIndex"`
	Slug string    `gorm:"column:slug;not null;uniqueIndex"`
}
