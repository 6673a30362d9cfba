package inventory

import (
	"context"

	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AdjustStock applies a signed correction to the on-hand level of a product,
// optionally scoped to a size partition, inside its own transaction. Positive
// deltas add stock; negative deltas go through the same conditional decrement
// as reservations, so a correction can never drive stock below zero.
func AdjustStock(ctx context.Context, runner txRunner, productID uuid.UUID, sizeID *uuid.UUID, delta int) error {
	if runner == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required for stock adjustment")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if delta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock adjustment must be non-zero")
	}

	return runner.WithTx(ctx, func(tx *gorm.DB) error {
		if delta > 0 {
			return Release(ctx, tx, []ReleaseItem{{ProductID: productID, SizeID: sizeID, Qty: delta}})
		}

		results, err := Reserve(ctx, tx, []ReservationRequest{{ProductID: productID, SizeID: sizeID, Qty: -delta}})
		if err != nil {
			return err
		}
		if failure := FirstFailure(results); failure != nil {
			remaining, availErr := NewRepository(tx).Availability(ctx, productID, sizeID)
			if availErr != nil {
				remaining = 0
			}
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for adjustment").
				WithDetails(map[string]any{
					"product_id": productID,
					"remaining":  remaining,
					"requested":  -delta,
				})
		}
		return nil
	})
}
