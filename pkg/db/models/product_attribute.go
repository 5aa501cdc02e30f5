package models

import (
	"github.com/google/uuid"
)

// ProductAttribute is an axis of variation, e.g. "Size".
type ProductAttribute struct {
	ID     uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name   string           `gorm:"column:name;not null"`
	Slug   string           `gorm:"column:slug;not null;uniqueIndex"`
	Values []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
}

// AttributeValue is a concrete value of an attribute, e.g. "Large".
type AttributeValue struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AttributeID uuid.UUID `gorm:"column:attribute_id;type:uuid;not null"`
	Value       string    `gorm:"column:value;not null"`
}

// ProductAttributeValue binds a variant to an attribute value. A variant may
// carry each attribute value at most once.
type ProductAttributeValue struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID        uuid.UUID `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_variant_attribute_value"`
	AttributeValueID uuid.UUID `gorm:"column:attribute_value_id;type:uuid;not null;uniqueIndex:idx_variant_attribute_value"`
}
