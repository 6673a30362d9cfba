package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/fashionhub/storefront-backend/internal/inventory"
	"github.com/fashionhub/storefront-backend/pkg/db"
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	Restock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, stock int) (*models.Product, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, delta int) (*models.Product, error)
	CreateSize(ctx context.Context, name, description string, sortOrder int) (*models.Size, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
}

// SizeStockInput sets the starting stock for one size partition.
type SizeStockInput struct {
	SizeID uuid.UUID
	Stock  int
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Tags        string
	Featured    bool
	SizeStocks  []SizeStockInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Tags        *string
	Featured    *bool
	SizeStocks  *[]SizeStockInput
}

// ListProductsInput filters and pages the public catalog listing.
type ListProductsInput struct {
	Search     string
	Featured   *bool
	Pagination pagination.Params
}

// ProductPage is one page of catalog results with the cursor for the next.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
	HasMore    bool
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs a catalog service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateProduct creates the product with its size partitions. Prices below
// the floor are clamped up, never rejected.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if err := validateSizeStocks(input.SizeStocks); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       clampPrice(input.Price),
		Stock:       input.Stock,
		Tags:        strings.TrimSpace(input.Tags),
		Featured:    input.Featured,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if len(input.SizeStocks) > 0 {
			rows, total, err := s.buildSizeStockRows(ctx, txRepo, product.ID, input.SizeStocks)
			if err != nil {
				return err
			}
			if err := txRepo.ReplaceSizeStocks(ctx, product.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace size stocks")
			}
			product.Stock = total
			if err := txRepo.UpdateProduct(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sync product stock")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies the provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if input.SizeStocks != nil {
		if err := validateSizeStocks(*input.SizeStocks); err != nil {
			return nil, err
		}
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyProductUpdate(product, input)
		if input.SizeStocks != nil {
			rows, total, err := s.buildSizeStockRows(ctx, txRepo, product.ID, *input.SizeStocks)
			if err != nil {
				return err
			}
			if err := txRepo.ReplaceSizeStocks(ctx, product.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace size stocks")
			}
			product.Stock = total
		}
		if err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.GetProduct(ctx, product.ID)
}

// DeleteProduct removes a product and relies on FK cascades for related rows.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.loadProduct(ctx, productID)
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	products, hasMore, err := s.repo.ListProducts(ctx, ProductListQuery{
		Search:     input.Search,
		Featured:   input.Featured,
		Pagination: input.Pagination,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Products: products, HasMore: hasMore}
	if hasMore && len(products) > 0 {
		last := products[len(products)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// Restock sets the absolute stock level. For sized products the sizeID is
// required and the aggregate is resynced to the partition sum.
func (s *service) Restock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Sized() && sizeID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required for this product")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if sizeID != nil {
			if _, err := s.repo.WithTx(tx).FindSize(ctx, *sizeID); err != nil {
				if IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "size not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
			}
			return inventory.NewRepository(tx).SetSizeStock(ctx, productID, *sizeID, stock)
		}

		product.Stock = stock
		if err := s.repo.WithTx(tx).UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product stock")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
	}

	return s.GetProduct(ctx, productID)
}

// AdjustStock applies a signed correction through the inventory ledger, so a
// negative delta can never drive stock below zero.
func (s *service) AdjustStock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, delta int) (*models.Product, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Sized() && sizeID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is required for this product")
	}

	if err := inventory.AdjustStock(ctx, s.tx, productID, sizeID, delta); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) CreateSize(ctx context.Context, name, description string, sortOrder int) (*models.Size, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size name is required")
	}

	size := &models.Size{
		Name:        name,
		Description: strings.TrimSpace(description),
		SortOrder:   sortOrder,
	}
	if err := s.repo.CreateSize(ctx, size); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "size name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create size")
	}
	return size, nil
}

func (s *service) ListSizes(ctx context.Context) ([]models.Size, error) {
	sizes, err := s.repo.ListSizes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sizes")
	}
	return sizes, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) buildSizeStockRows(ctx context.Context, repo Repository, productID uuid.UUID, inputs []SizeStockInput) ([]models.SizeStock, int, error) {
	rows := make([]models.SizeStock, 0, len(inputs))
	total := 0
	for _, in := range inputs {
		if _, err := repo.FindSize(ctx, in.SizeID); err != nil {
			if IsNotFound(err) {
				return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown size")
			}
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
		}
		rows = append(rows, models.SizeStock{
			ProductID: productID,
			SizeID:    in.SizeID,
			Stock:     in.Stock,
		})
		total += in.Stock
	}
	return rows, total, nil
}

func validateSizeStocks(inputs []SizeStockInput) error {
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if in.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "size stock must be non-negative")
		}
		if _, ok := seen[in.SizeID]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate size in partitions")
		}
		seen[in.SizeID] = struct{}{}
	}
	return nil
}

func clampPrice(price decimal.Decimal) decimal.Decimal {
	if price.LessThan(models.MinUnitPrice) {
		return models.MinUnitPrice
	}
	return price.Round(2)
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		product.Price = clampPrice(*input.Price)
	}
	if input.Tags != nil {
		product.Tags = strings.TrimSpace(*input.Tags)
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
}
