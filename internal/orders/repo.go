package orders

import (
	"context"
	"errors"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for orders, their lines, and the audit
// trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, event *models.OrderStatusEvent) error
	List(ctx context.Context, query ListQuery) ([]models.Order, bool, error)
}

// ListQuery filters the order listing.
type ListQuery struct {
	CustomerID *uuid.UUID
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate takes a row lock on the order so concurrent writers
// serialize on it. sqlite has no FOR UPDATE; its single-writer model covers
// the same ground.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findByID(ctx, id, true)
}

func (r *repository) findByID(ctx context.Context, id uuid.UUID, locked bool) (*models.Order, error) {
	q := r.db.WithContext(ctx)
	if locked && r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	err := q.
		Preload("Lines").
		Preload("Events", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save persists the mutable order columns. Lines and events are append-only
// and written through their own paths.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Omit("Lines", "Events").
		Save(order).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

func (r *repository) AppendEvent(ctx context.Context, event *models.OrderStatusEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// List pages orders newest-first with optional customer and status filters.
func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Order, bool, error) {
	limit := pagination.NormalizeLimit(query.Pagination.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Lines").
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if query.CustomerID != nil {
		q = q.Where("customer_id = ?", *query.CustomerID)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if cursor, err := pagination.ParseCursor(query.Pagination.Cursor); err != nil {
		return nil, false, err
	} else if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := q.Find(&rows).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return rows, hasMore, nil
}

// IsNotFound reports whether err is the underlying record-missing error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
