package models

import (
	"github.com/google/uuid"
)

// Category is a node in the catalog tree. The parent reference is cleared when
// the parent row is deleted; acyclicity is enforced at the write path, not by
// the schema.
type Category struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	ParentID    *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Description string     `gorm:"column:description;not null;default:''"`
	Children    []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}
