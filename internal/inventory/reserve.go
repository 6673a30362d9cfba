package inventory

import (
	"context"
	"fmt"

	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationRequest asks for qty units of a product, optionally pinned to a
// size partition. LineID is echoed back so callers can match results to the
// cart line that produced them.
type ReservationRequest struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	SizeID    *uuid.UUID
	Qty       int
}

// ReservationResult reports the outcome for a single request. Reason is empty
// when Reserved is true.
type ReservationResult struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	SizeID    *uuid.UUID
	Reserved  bool
	Reason    string
}

// Reserve decrements stock for each request inside the caller's transaction.
// Each decrement is a conditional UPDATE guarded by the current stock level,
// so two concurrent checkouts can never both take the last unit. Requests are
// processed in order; a failed request does not stop the rest, the caller
// decides whether partial success aborts the transaction.
func Reserve(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) ([]ReservationResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}
	for _, req := range requests {
		if req.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be positive")
		}
	}

	results := make([]ReservationResult, 0, len(requests))
	for _, req := range requests {
		result := ReservationResult{
			LineID:    req.LineID,
			ProductID: req.ProductID,
			SizeID:    req.SizeID,
		}

		ok, err := reserveOne(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		if ok {
			result.Reserved = true
		} else {
			result.Reason = fmt.Sprintf("insufficient stock for %d unit(s)", req.Qty)
		}
		results = append(results, result)
	}
	return results, nil
}

func reserveOne(ctx context.Context, tx *gorm.DB, req ReservationRequest) (bool, error) {
	if req.SizeID != nil {
		res := tx.WithContext(ctx).Exec(`
			UPDATE size_stocks
			SET stock = stock - ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE product_id = ? AND size_id = ? AND stock >= ?
		`, req.Qty, req.ProductID, *req.SizeID, req.Qty)
		if res.Error != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve size stock")
		}
		if res.RowsAffected == 0 {
			return false, nil
		}
		// Keep the product aggregate at the partition sum. Recomputing it
		// instead of decrementing means a drifted aggregate is corrected
		// here rather than drifting further.
		if err := tx.WithContext(ctx).Exec(`
			UPDATE products
			SET stock = (
				SELECT COALESCE(SUM(stock), 0) FROM size_stocks WHERE product_id = ?
			),
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, req.ProductID, req.ProductID).Error; err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync product stock")
		}
		return true, nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock = stock - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, req.Qty, req.ProductID, req.Qty)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve product stock")
	}
	return res.RowsAffected > 0, nil
}

// FirstFailure returns the first result that was not reserved, or nil when
// every request succeeded.
func FirstFailure(results []ReservationResult) *ReservationResult {
	for i := range results {
		if !results[i].Reserved {
			return &results[i]
		}
	}
	return nil
}
