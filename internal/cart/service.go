package cart

import (
	"context"
	"fmt"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type availabilityReader interface {
	Availability(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID) (int, error)
}

// Service exposes the customer cart operations.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*View, error)
	AddLine(ctx context.Context, customerID uuid.UUID, input AddLineInput) (*View, error)
	UpdateLineQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (*View, error)
	RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) (*View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

// AddLineInput captures one add-to-cart request.
type AddLineInput struct {
	ProductID uuid.UUID
	SizeID    *uuid.UUID
	Quantity  int
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	stock    availabilityReader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, stock availabilityReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("availability reader required")
	}
	return &service{repo: repo, tx: tx, products: products, stock: stock}, nil
}

// GetCart returns the active cart, creating an empty one when the customer
// has none yet.
func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	record, err := s.fetchOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, record, nil)
}

// AddLine merges the request into the active cart. Re-adding an existing
// (product, size) pair sums quantities; both the fresh and the merged
// quantity must fit current availability or the add fails.
func (s *service) AddLine(ctx context.Context, customerID uuid.UUID, input AddLineInput) (*View, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateSizeChoice(product, input.SizeID); err != nil {
		return nil, err
	}

	available, err := s.stock.Availability(ctx, input.ProductID, input.SizeID)
	if err != nil {
		return nil, err
	}
	if available <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "product is out of stock").
			WithDetails(map[string]any{"product_id": input.ProductID})
	}

	record, err := s.fetchOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		line := findLine(record, input.ProductID, input.SizeID)
		requested := input.Quantity
		if line != nil {
			requested += line.Quantity
		}

		if requested > available {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("only %d of %q available", available, product.Name)).
				WithDetails(map[string]any{
					"product_id": input.ProductID,
					"available":  available,
					"requested":  requested,
				})
		}

		if line == nil {
			line = &models.CartItem{
				CartID:    record.ID,
				ProductID: input.ProductID,
				SizeID:    input.SizeID,
			}
		}
		line.Quantity = requested
		return txRepo.SaveItem(ctx, line)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}

	return s.reload(ctx, customerID, nil)
}

// UpdateLineQuantity sets the absolute quantity for one line. Zero or
// negative removes the line; quantities above availability are clamped with
// a warning.
func (s *service) UpdateLineQuantity(ctx context.Context, customerID, lineID uuid.UUID, quantity int) (*View, error) {
	record, line, err := s.findCartLine(ctx, customerID, lineID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, record.ID, line.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return s.reload(ctx, customerID, nil)
	}

	available, err := s.stock.Availability(ctx, line.ProductID, line.SizeID)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if available <= 0 {
		if err := s.repo.DeleteItem(ctx, record.ID, line.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		warnings = append(warnings, "item removed: no longer in stock")
		return s.reload(ctx, customerID, warnings)
	}
	if quantity > available {
		quantity = available
		warnings = append(warnings, fmt.Sprintf("only %d available, quantity adjusted", available))
	}

	line.Quantity = quantity
	if err := s.repo.SaveItem(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.reload(ctx, customerID, warnings)
}

// RemoveLine drops one line from the active cart.
func (s *service) RemoveLine(ctx context.Context, customerID, lineID uuid.UUID) (*View, error) {
	record, line, err := s.findCartLine(ctx, customerID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, record.ID, line.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.reload(ctx, customerID, nil)
}

// Clear empties the active cart. Missing carts are a no-op.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) fetchOrCreate(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return record, nil
	}
	if !IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	record = &models.CartRecord{
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return record, nil
}

func (s *service) findCartLine(ctx context.Context, customerID, lineID uuid.UUID) (*models.CartRecord, *models.CartItem, error) {
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	for i := range record.Items {
		if record.Items[i].ID == lineID {
			return record, &record.Items[i], nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

func (s *service) reload(ctx context.Context, customerID uuid.UUID, warnings []string) (*View, error) {
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return s.buildView(ctx, record, warnings)
}

// buildView prices every line against the current catalog. Lines whose
// product disappeared since they were added are skipped.
func (s *service) buildView(ctx context.Context, record *models.CartRecord, warnings []string) (*View, error) {
	view := emptyView(record)
	view.Warnings = warnings

	for i := range record.Items {
		item := &record.Items[i]

		product, err := s.products.FindProduct(ctx, item.ProductID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				continue
			}
			return nil, err
		}

		available, err := s.stock.Availability(ctx, item.ProductID, item.SizeID)
		if err != nil {
			return nil, err
		}

		line := LineView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			SizeID:      item.SizeID,
			SizeName:    sizeName(product, item.SizeID),
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Available:   available,
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.Subtotal)
	}
	return view, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateSizeChoice(product *models.Product, sizeID *uuid.UUID) error {
	if product.Sized() {
		if sizeID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "size is required for this product")
		}
		for _, ss := range product.SizeStocks {
			if ss.SizeID == *sizeID {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}
	if sizeID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product has no size partitions")
	}
	return nil
}

func findLine(record *models.CartRecord, productID uuid.UUID, sizeID *uuid.UUID) *models.CartItem {
	for i := range record.Items {
		item := &record.Items[i]
		if item.ProductID != productID {
			continue
		}
		if (item.SizeID == nil) != (sizeID == nil) {
			continue
		}
		if item.SizeID == nil || *item.SizeID == *sizeID {
			return item
		}
	}
	return nil
}

func sizeName(product *models.Product, sizeID *uuid.UUID) string {
	if sizeID == nil {
		return ""
	}
	for _, ss := range product.SizeStocks {
		if ss.SizeID == *sizeID && ss.Size != nil {
			return ss.Size.Name
		}
	}
	return ""
}
