package inventory

import (
	"context"

	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReleaseItem returns qty units of a product to stock, optionally into a
// size partition.
type ReleaseItem struct {
	ProductID uuid.UUID
	SizeID    *uuid.UUID
	Qty       int
}

// Release restores previously reserved stock inside the caller's transaction.
// Items referencing products that were deleted since the reservation are
// skipped rather than failed; the rest of the release still applies.
func Release(ctx context.Context, tx *gorm.DB, items []ReleaseItem) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory release")
	}

	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}

		if item.SizeID != nil {
			if err := tx.WithContext(ctx).Exec(`
				UPDATE size_stocks
				SET stock = stock + ?,
					updated_at = CURRENT_TIMESTAMP
				WHERE product_id = ? AND size_id = ?
			`, item.Qty, item.ProductID, *item.SizeID).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release size stock")
			}
			// Aggregate is recomputed from the partitions so a drifted
			// value is corrected rather than carried forward.
			if err := tx.WithContext(ctx).Exec(`
				UPDATE products
				SET stock = (
					SELECT COALESCE(SUM(stock), 0) FROM size_stocks WHERE product_id = ?
				),
					updated_at = CURRENT_TIMESTAMP
				WHERE id = ?
			`, item.ProductID, item.ProductID).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync product stock")
			}
			continue
		}

		if err := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = stock + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, item.Qty, item.ProductID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release product stock")
		}
	}
	return nil
}
