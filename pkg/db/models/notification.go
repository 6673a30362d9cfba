package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fashionhub/storefront-backend/pkg/enums"
)

// Notification is a stored-inbox message shown to the user on next visit.
type Notification struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Title     string                  `gorm:"column:title;not null;default:''"`
	Message   string                  `gorm:"column:message;not null"`
	Level     enums.NotificationLevel `gorm:"column:level;not null;default:'info'"`
	ReadAt    *time.Time              `gorm:"column:read_at"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}
