package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fashionhub/storefront-backend/pkg/enums"
)

// CartRecord is the customer-scoped working cart. One active cart per
// customer; checkout flips the status to converted.
type CartRecord struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one (product, size) selection. At most one row exists per
// (cart, product, size); re-adding merges quantity.
type CartItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID  `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_size"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_size"`
	SizeID    *uuid.UUID `gorm:"column:size_id;type:uuid;uniqueIndex:ux_cart_items_cart_product_size"`
	Quantity  int        `gorm:"column:quantity;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
