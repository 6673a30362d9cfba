package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinUnitPrice is the lowest price a product may carry. Writes below the
// floor are clamped, not rejected.
var MinUnitPrice = decimal.NewFromFloat(0.01)

// Product represents a catalog listing. Stock is the aggregate counter for
// products without size partitions; partitioned products track stock per
// size in SizeStock rows and keep this column at the partition sum.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Tags        string          `gorm:"column:tags;not null;default:''"`
	Featured    bool            `gorm:"column:featured;not null;default:false"`
	SizeStocks  []SizeStock     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Sized reports whether the product partitions stock by size.
func (p *Product) Sized() bool {
	return len(p.SizeStocks) > 0
}

// TotalStock returns the partition sum for sized products, or the aggregate
// counter otherwise.
func (p *Product) TotalStock() int {
	if !p.Sized() {
		return p.Stock
	}
	total := 0
	for _, ss := range p.SizeStocks {
		total += ss.Stock
	}
	return total
}
