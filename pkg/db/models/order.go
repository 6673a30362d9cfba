package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fashionhub/storefront-backend/pkg/enums"
)

// Order is the immutable receipt of a purchase. Customer fields are
// snapshots taken at creation; only status, the payment flag and the
// receipt fields ever change afterwards, and only through the order
// service.
type Order struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Customer *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`

	FullName   string `gorm:"column:full_name;not null"`
	Email      string `gorm:"column:email;not null"`
	Phone      string `gorm:"column:phone;not null"`
	Address    string `gorm:"column:address;not null"`
	City       string `gorm:"column:city;not null"`
	State      string `gorm:"column:state;not null"`
	PostalCode string `gorm:"column:postal_code;not null"`

	ReceiverName  *string `gorm:"column:receiver_name"`
	ReceiverPhone *string `gorm:"column:receiver_phone"`

	TotalAmount        decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status             enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cash_on_delivery'"`
	PaymentConfirmed   bool                `gorm:"column:payment_confirmed;not null;default:false"`
	OrderNotes         string              `gorm:"column:order_notes;not null;default:''"`
	CancellationReason *string             `gorm:"column:cancellation_reason"`
	ReceiptConfirmed   bool                `gorm:"column:receipt_confirmed;not null;default:false"`
	ReceiptConfirmedAt *time.Time          `gorm:"column:receipt_confirmed_at"`

	Lines  []OrderLine        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events []OrderStatusEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine snapshots one purchased item. Name, size name and unit price
// are copied at creation so later product edits or deletes never alter the
// receipt.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName string          `gorm:"column:product_name;not null"`
	SizeID      *uuid.UUID      `gorm:"column:size_id;type:uuid"`
	SizeName    string          `gorm:"column:size_name;not null;default:''"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Subtotal returns unit price times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderStatusEvent is the append-only audit trail. Rows are created only by
// status or payment changes and are never mutated or deleted.
type OrderStatusEvent struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;not null"`
	Note      string            `gorm:"column:note;not null;default:''"`
	ActorType enums.ActorType   `gorm:"column:actor_type;not null;default:'system'"`
	ActorID   *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
