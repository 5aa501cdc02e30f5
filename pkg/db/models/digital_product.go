package models

import (
	"github.com/google/uuid"
)

// DigitalProduct attaches downloadable-file metadata to a product. The
// product id doubles as the primary key, making the relation one-to-one.
type DigitalProduct struct {
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	FileRef       string    `gorm:"column:file_ref;not null"`
	FileSize      int64     `gorm:"column:file_size;not null"`
	DownloadLimit *int      `gorm:"column:download_limit"`
}
