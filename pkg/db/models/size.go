package models

import (
	"time"

	"github.com/google/uuid"
)

// Size is a catalog-wide size label (XS..XXXL).
type Size struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// SizeStock is the per-(product, size) stock partition.
type SizeStock struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	SizeID    uuid.UUID `gorm:"column:size_id;type:uuid;primaryKey"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	Size      *Size     `gorm:"foreignKey:SizeID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
