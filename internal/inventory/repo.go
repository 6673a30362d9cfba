package inventory

import (
	"context"
	"errors"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository answers availability questions against current stock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Availability(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID) (int, error)
	SetSizeStock(ctx context.Context, productID, sizeID uuid.UUID, stock int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Availability returns the units currently on hand for a product, scoped to a
// size partition when sizeID is set. A missing partition row counts as zero
// stock; a missing product is a not-found error.
func (r *repository) Availability(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID) (int, error) {
	if sizeID != nil {
		var row models.SizeStock
		err := r.db.WithContext(ctx).
			Where("product_id = ? AND size_id = ?", productID, *sizeID).
			First(&row).Error
		if err == nil {
			return row.Stock, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size stock")
		}
		// fall through: partition missing, confirm the product exists
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Select("id", "stock").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product stock")
	}
	if sizeID != nil {
		return 0, nil
	}
	return product.Stock, nil
}

// SetSizeStock upserts the absolute stock level for one size partition and
// resyncs the product aggregate to the partition sum.
func (r *repository) SetSizeStock(ctx context.Context, productID, sizeID uuid.UUID, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	res := r.db.WithContext(ctx).
		Model(&models.SizeStock{}).
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		Update("stock", stock)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update size stock")
	}
	if res.RowsAffected == 0 {
		row := models.SizeStock{ProductID: productID, SizeID: sizeID, Stock: stock}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert size stock")
		}
	}

	return r.syncAggregate(ctx, productID)
}

func (r *repository) syncAggregate(ctx context.Context, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = (
			SELECT COALESCE(SUM(stock), 0) FROM size_stocks WHERE product_id = ?
		),
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, productID, productID).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync product stock")
	}
	return nil
}
