package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for products and sizes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, query ProductListQuery) ([]models.Product, bool, error)
	CreateSize(ctx context.Context, size *models.Size) error
	FindSize(ctx context.Context, id uuid.UUID) (*models.Size, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
	ReplaceSizeStocks(ctx context.Context, productID uuid.UUID, rows []models.SizeStock) error
}

// ProductListQuery filters the catalog listing.
type ProductListQuery struct {
	Search     string
	Featured   *bool
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Omit("SizeStocks").
		Save(product).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("SizeStocks.Size").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one page plus a hasMore flag, keyset-paginated on
// (created_at, id) descending.
func (r *repository) ListProducts(ctx context.Context, query ProductListQuery) ([]models.Product, bool, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("SizeStocks.Size").
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if search := strings.TrimSpace(query.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(tags) LIKE ?", like, like)
	}
	if query.Featured != nil {
		q = q.Where("featured = ?", *query.Featured)
	}
	if cursor, err := pagination.ParseCursor(query.Pagination.Cursor); err != nil {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	} else if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}
	return products, hasMore, nil
}

func (r *repository) CreateSize(ctx context.Context, size *models.Size) error {
	return r.db.WithContext(ctx).Create(size).Error
}

func (r *repository) FindSize(ctx context.Context, id uuid.UUID) (*models.Size, error) {
	var size models.Size
	if err := r.db.WithContext(ctx).First(&size, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *repository) ListSizes(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&sizes).Error
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

// ReplaceSizeStocks swaps the full partition set for a product.
func (r *repository) ReplaceSizeStocks(ctx context.Context, productID uuid.UUID, rows []models.SizeStock) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.SizeStock{}, "product_id = ?", productID).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// IsNotFound reports whether err is the underlying record-missing error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
