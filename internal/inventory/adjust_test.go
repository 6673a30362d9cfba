package inventory

import (
	"context"
	"testing"

	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

type gormRunner struct {
	db *gorm.DB
}

func (r gormRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func TestAdjustStockAddsAndRemoves(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	runner := gormRunner{db: db}
	repo := NewRepository(db)

	product := mustCreateProduct(t, db, 5)

	if err := AdjustStock(ctx, runner, product.ID, nil, 3); err != nil {
		t.Fatalf("positive adjustment: %v", err)
	}
	if got, _ := repo.Availability(ctx, product.ID, nil); got != 8 {
		t.Fatalf("expected 8 after +3, got %d", got)
	}

	if err := AdjustStock(ctx, runner, product.ID, nil, -6); err != nil {
		t.Fatalf("negative adjustment: %v", err)
	}
	if got, _ := repo.Availability(ctx, product.ID, nil); got != 2 {
		t.Fatalf("expected 2 after -6, got %d", got)
	}
}

func TestAdjustStockSizePartition(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	runner := gormRunner{db: db}
	repo := NewRepository(db)

	product := mustCreateProduct(t, db, 4)
	size := mustCreateSize(t, db, "L")
	mustCreateSizeStock(t, db, product.ID, size.ID, 4)

	if err := AdjustStock(ctx, runner, product.ID, &size.ID, -3); err != nil {
		t.Fatalf("partition adjustment: %v", err)
	}
	if got, _ := repo.Availability(ctx, product.ID, &size.ID); got != 1 {
		t.Fatalf("expected partition stock 1, got %d", got)
	}
	// Aggregate moves with the partition.
	if got, _ := repo.Availability(ctx, product.ID, nil); got != 1 {
		t.Fatalf("expected aggregate stock 1, got %d", got)
	}
}

func TestAdjustStockCannotGoNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	runner := gormRunner{db: db}
	repo := NewRepository(db)

	product := mustCreateProduct(t, db, 2)

	err := AdjustStock(ctx, runner, product.ID, nil, -5)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got, _ := repo.Availability(ctx, product.ID, nil); got != 2 {
		t.Fatalf("stock must be untouched after failed adjustment, got %d", got)
	}
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	runner := gormRunner{db: db}
	product := mustCreateProduct(t, db, 1)

	err := AdjustStock(context.Background(), runner, product.ID, nil, 0)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
