package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/fashionhub/storefront-backend/internal/catalog"
	"github.com/fashionhub/storefront-backend/internal/inventory"
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
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

type cartFixture struct {
	svc     Service
	catalog catalog.Service
	db      *gorm.DB
}

func newFixture(t *testing.T) *cartFixture {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	tables := []any{
		&models.Product{}, &models.Size{}, &models.SizeStock{},
		&models.CartRecord{}, &models.CartItem{},
	}
	if err := conn.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	runner := gormTxRunner{db: conn}
	catalogRepo := catalog.NewRepository(conn)
	catalogSvc, err := catalog.NewService(catalogRepo, runner)
	if err != nil {
		t.Fatalf("build catalog service: %v", err)
	}
	svc, err := NewService(NewRepository(conn), runner, catalogRepo, inventory.NewRepository(conn))
	if err != nil {
		t.Fatalf("build cart service: %v", err)
	}
	return &cartFixture{svc: svc, catalog: catalogSvc, db: conn}
}

func (f *cartFixture) mustProduct(t *testing.T, input catalog.CreateProductInput) *models.Product {
	t.Helper()
	product, err := f.catalog.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestAddLineMergesQuantities(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	product := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Canvas Tote",
		Price: decimal.NewFromFloat(25.00),
		Stock: 5,
	})

	view, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 3 {
		t.Fatalf("unexpected cart after first add: %+v", view)
	}

	view, err = f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("merge add: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(view.Lines))
	}
	if view.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", view.Lines[0].Quantity)
	}
	if !view.Total.Equal(decimal.NewFromFloat(125.00)) {
		t.Fatalf("expected total 125.00, got %s", view.Total)
	}
}

func TestAddLineRejectsOverAvailability(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	product := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Wool Beanie",
		Price: decimal.NewFromFloat(15.00),
		Stock: 5,
	})

	// Fresh add above stock fails outright.
	_, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 10})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock for fresh add, got %v", err)
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available"] != 5 {
		t.Fatalf("expected remaining stock in details, got %v", typed.Details())
	}

	// Merged total above stock fails too, and the line keeps its old quantity.
	if _, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 4}); err != nil {
		t.Fatalf("add within stock: %v", err)
	}
	_, err = f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 2})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock for merged add, got %v", err)
	}
	view, err := f.svc.GetCart(ctx, customer)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 4 {
		t.Fatalf("failed merge must not change the line, got %+v", view.Lines)
	}
}

func TestAddLineSizeRules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	size, err := f.catalog.CreateSize(ctx, "M", "", 1)
	if err != nil {
		t.Fatalf("create size: %v", err)
	}
	sized := f.mustProduct(t, catalog.CreateProductInput{
		Name:       "Fitted Shirt",
		Price:      decimal.NewFromFloat(30.00),
		SizeStocks: []catalog.SizeStockInput{{SizeID: size.ID, Stock: 2}},
	})

	if _, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: sized.ID, Quantity: 1}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected size-required error, got %v", err)
	}

	unknown := uuid.New()
	if _, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: sized.ID, SizeID: &unknown, Quantity: 1}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown-size error, got %v", err)
	}

	view, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: sized.ID, SizeID: &size.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add sized line: %v", err)
	}
	if view.Lines[0].SizeName != size.Name {
		t.Fatalf("expected size name %q, got %q", size.Name, view.Lines[0].SizeName)
	}
}

func TestAddLineOutOfStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Sold Out Cap",
		Price: decimal.NewFromFloat(10.00),
		Stock: 0,
	})

	_, err := f.svc.AddLine(ctx, uuid.New(), AddLineInput{ProductID: product.ID, Quantity: 1})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestUpdateLineQuantity(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	product := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Linen Pants",
		Price: decimal.NewFromFloat(45.00),
		Stock: 4,
	})

	view, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	lineID := view.Lines[0].ID

	view, err = f.svc.UpdateLineQuantity(ctx, customer, lineID, 10)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if view.Lines[0].Quantity != 4 {
		t.Fatalf("expected clamp to 4, got %d", view.Lines[0].Quantity)
	}
	if len(view.Warnings) == 0 || !strings.Contains(view.Warnings[0], "adjusted") {
		t.Fatalf("expected clamp warning, got %v", view.Warnings)
	}

	view, err = f.svc.UpdateLineQuantity(ctx, customer, lineID, 0)
	if err != nil {
		t.Fatalf("zero quantity: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", view.Lines)
	}

	if _, err := f.svc.UpdateLineQuantity(ctx, customer, uuid.New(), 1); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown line, got %v", err)
	}
}

func TestRemoveLineAndClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	first := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Scarf",
		Price: decimal.NewFromFloat(12.00),
		Stock: 3,
	})
	second := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Gloves",
		Price: decimal.NewFromFloat(18.00),
		Stock: 3,
	})

	view, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: first.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: second.ID, Quantity: 1}); err != nil {
		t.Fatalf("add second: %v", err)
	}

	view, err = f.svc.RemoveLine(ctx, customer, view.Lines[0].ID)
	if err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ProductID != second.ID {
		t.Fatalf("unexpected cart after remove: %+v", view.Lines)
	}

	if err := f.svc.Clear(ctx, customer); err != nil {
		t.Fatalf("clear: %v", err)
	}
	view, err = f.svc.GetCart(ctx, customer)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Lines)
	}

	// Clearing a customer with no cart is a no-op.
	if err := f.svc.Clear(ctx, uuid.New()); err != nil {
		t.Fatalf("clear missing cart: %v", err)
	}
}

func TestGetCartUsesLivePrices(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()
	product := f.mustProduct(t, catalog.CreateProductInput{
		Name:  "Topcoat",
		Price: decimal.NewFromFloat(80.00),
		Stock: 2,
	})

	if _, err := f.svc.AddLine(ctx, customer, AddLineInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add line: %v", err)
	}

	newPrice := decimal.NewFromFloat(60.00)
	if _, err := f.catalog.UpdateProduct(ctx, product.ID, catalog.UpdateProductInput{Price: &newPrice}); err != nil {
		t.Fatalf("reprice: %v", err)
	}

	view, err := f.svc.GetCart(ctx, customer)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !view.Lines[0].UnitPrice.Equal(newPrice) {
		t.Fatalf("expected live price 60.00, got %s", view.Lines[0].UnitPrice)
	}
	if !view.Total.Equal(decimal.NewFromFloat(120.00)) {
		t.Fatalf("expected total 120.00, got %s", view.Total)
	}
}
