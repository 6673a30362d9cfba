package ratings

import (
	"context"
	"errors"
	"time"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for product ratings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, rating *models.Rating) error
	FindByUserProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Rating, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Rating, error)
	Summary(ctx context.Context, productID uuid.UUID) (ratingSummary, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a ratings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type ratingSummary struct {
	Average float64 `gorm:"column:average"`
	Count   int64   `gorm:"column:count"`
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Upsert(ctx context.Context, rating *models.Rating) error {
	result := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("user_id = ? AND product_id = ?", rating.UserID, rating.ProductID).
		Updates(map[string]any{
			"stars":      rating.Stars,
			"review":     rating.Review,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND product_id = ?", rating.UserID, rating.ProductID).
			First(rating).Error
	}
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *repositoryImpl) FindByUserProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repositoryImpl) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repositoryImpl) Summary(ctx context.Context, productID uuid.UUID) (ratingSummary, error) {
	var summary ratingSummary
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(stars), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&summary).Error
	return summary, err
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsNotFound reports whether err is gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
