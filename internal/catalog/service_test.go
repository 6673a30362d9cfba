package catalog

import (
	"context"
	"testing"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Size{}, &models.SizeStock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), gormTxRunner{db: conn})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, conn
}

func TestCreateProductClampsPrice(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Slim Tee",
		Price: decimal.NewFromFloat(0.001),
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !product.Price.Equal(models.MinUnitPrice) {
		t.Fatalf("expected price clamped to floor, got %s", product.Price)
	}
	if product.Stock != 10 {
		t.Fatalf("expected stock 10, got %d", product.Stock)
	}
}

func TestCreateProductWithSizes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	sizeM, err := svc.CreateSize(ctx, "M", "", 2)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}
	sizeL, err := svc.CreateSize(ctx, "L", "", 3)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Denim Jacket",
		Price: decimal.NewFromFloat(59.90),
		SizeStocks: []SizeStockInput{
			{SizeID: sizeM.ID, Stock: 4},
			{SizeID: sizeL.ID, Stock: 6},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !product.Sized() {
		t.Fatal("expected sized product")
	}
	if product.Stock != 10 {
		t.Fatalf("expected aggregate stock 10, got %d", product.Stock)
	}

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Broken",
		Price:      decimal.NewFromFloat(9.99),
		SizeStocks: []SizeStockInput{{SizeID: uuid.New(), Stock: 1}},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown size, got %v", err)
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Wool Scarf",
		Price: decimal.NewFromFloat(15.00),
		Stock: 3,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPrice := decimal.NewFromFloat(-4)
	featured := true
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{
		Price:    &newPrice,
		Featured: &featured,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if !updated.Price.Equal(models.MinUnitPrice) {
		t.Fatalf("expected negative price clamped to floor, got %s", updated.Price)
	}
	if !updated.Featured {
		t.Fatal("expected featured flag set")
	}

	if _, err := svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{}); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestock(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	size, err := svc.CreateSize(ctx, "XL", "", 5)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}
	sized, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Hoodie",
		Price:      decimal.NewFromFloat(35.00),
		SizeStocks: []SizeStockInput{{SizeID: size.ID, Stock: 1}},
	})
	if err != nil {
		t.Fatalf("create sized product: %v", err)
	}

	if _, err := svc.Restock(ctx, sized.ID, nil, 9); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected size-required error, got %v", err)
	}

	restocked, err := svc.Restock(ctx, sized.ID, &size.ID, 9)
	if err != nil {
		t.Fatalf("restock sized: %v", err)
	}
	if restocked.Stock != 9 {
		t.Fatalf("expected aggregate 9 after restock, got %d", restocked.Stock)
	}

	plain, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Belt",
		Price: decimal.NewFromFloat(12.00),
		Stock: 1,
	})
	if err != nil {
		t.Fatalf("create plain product: %v", err)
	}
	restocked, err = svc.Restock(ctx, plain.ID, nil, 40)
	if err != nil {
		t.Fatalf("restock plain: %v", err)
	}
	if restocked.Stock != 40 {
		t.Fatalf("expected stock 40, got %d", restocked.Stock)
	}
}

func TestAdjustStock(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Scarf",
		Price: decimal.NewFromFloat(8.50),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	adjusted, err := svc.AdjustStock(ctx, product.ID, nil, -3)
	if err != nil {
		t.Fatalf("adjust down: %v", err)
	}
	if adjusted.Stock != 2 {
		t.Fatalf("expected stock 2 after -3, got %d", adjusted.Stock)
	}

	adjusted, err = svc.AdjustStock(ctx, product.ID, nil, 10)
	if err != nil {
		t.Fatalf("adjust up: %v", err)
	}
	if adjusted.Stock != 12 {
		t.Fatalf("expected stock 12 after +10, got %d", adjusted.Stock)
	}

	if _, err := svc.AdjustStock(ctx, product.ID, nil, -50); !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	size, err := svc.CreateSize(ctx, "M", "", 2)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}
	sized, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Polo",
		Price:      decimal.NewFromFloat(22.00),
		SizeStocks: []SizeStockInput{{SizeID: size.ID, Stock: 3}},
	})
	if err != nil {
		t.Fatalf("create sized product: %v", err)
	}
	if _, err := svc.AdjustStock(ctx, sized.ID, nil, -1); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected size-required error, got %v", err)
	}
}

func TestCreateSizeDuplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSize(ctx, "S", "small", 1); err != nil {
		t.Fatalf("create size: %v", err)
	}
	if _, err := svc.CreateSize(ctx, "S", "again", 1); !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate size, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Red Dress", "Blue Dress", "Green Hat"} {
		if _, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:  name,
			Price: decimal.NewFromFloat(20.00),
			Stock: 1,
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	page, err := svc.ListProducts(ctx, ListProductsInput{Search: "dress"})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Products) != 2 {
		t.Fatalf("expected 2 dress results, got %d", len(page.Products))
	}

	page, err = svc.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page.Products) != 2 || !page.HasMore || page.NextCursor == "" {
		t.Fatalf("expected a full first page with cursor: %+v", page)
	}

	page, err = svc.ListProducts(ctx, ListProductsInput{
		Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(page.Products) != 1 || page.HasMore {
		t.Fatalf("expected final page with one product: %+v", page)
	}
}
