package inventory

import (
	"context"
	"testing"

	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestAvailability(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	product := mustCreateProduct(t, db, 7)
	size := mustCreateSize(t, db, "S")
	mustCreateSizeStock(t, db, product.ID, size.ID, 4)

	got, err := repo.Availability(ctx, product.ID, nil)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected aggregate availability 7, got %d", got)
	}

	got, err = repo.Availability(ctx, product.ID, &size.ID)
	if err != nil {
		t.Fatalf("sized availability: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected sized availability 4, got %d", got)
	}

	missingSize := uuid.New()
	got, err = repo.Availability(ctx, product.ID, &missingSize)
	if err != nil {
		t.Fatalf("missing partition availability: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected missing partition to report 0, got %d", got)
	}

	if _, err := repo.Availability(ctx, uuid.New(), nil); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestSetSizeStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	product := mustCreateProduct(t, db, 0)
	sizeA := mustCreateSize(t, db, "M")
	sizeB := mustCreateSize(t, db, "L")

	if err := repo.SetSizeStock(ctx, product.ID, sizeA.ID, 5); err != nil {
		t.Fatalf("set size stock: %v", err)
	}
	if err := repo.SetSizeStock(ctx, product.ID, sizeB.ID, 2); err != nil {
		t.Fatalf("set second size stock: %v", err)
	}
	if got := reloadStock(t, db, product.ID); got != 7 {
		t.Fatalf("expected aggregate 7 after upserts, got %d", got)
	}

	// Overwrite, not add.
	if err := repo.SetSizeStock(ctx, product.ID, sizeA.ID, 1); err != nil {
		t.Fatalf("overwrite size stock: %v", err)
	}
	if got := reloadStock(t, db, product.ID); got != 3 {
		t.Fatalf("expected aggregate 3 after overwrite, got %d", got)
	}

	if err := repo.SetSizeStock(ctx, product.ID, sizeA.ID, -1); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}
}
