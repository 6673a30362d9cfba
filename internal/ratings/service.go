package ratings

import (
	"context"
	"fmt"
	"strings"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	// MinStars and MaxStars bound the accepted rating value.
	MinStars = 1
	MaxStars = 5

	defaultListLimit = 50
)

type productLoader interface {
	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service manages product ratings. A user keeps at most one rating per
// product; rating again replaces the previous one.
type Service interface {
	Rate(ctx context.Context, input RateInput) (*models.Rating, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) (*ProductRatings, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// RateInput carries one user's rating of one product.
type RateInput struct {
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Stars     int       `json:"stars"`
	Review    string    `json:"review"`
}

// ProductRatings bundles the reviews with their aggregate.
type ProductRatings struct {
	Items   []models.Rating `json:"items"`
	Average float64         `json:"average"`
	Count   int64           `json:"count"`
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService wires the ratings service.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Rate(ctx context.Context, input RateInput) (*models.Rating, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Stars < MinStars || input.Stars > MaxStars {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5").
			WithDetails(map[string]any{"stars": input.Stars})
	}

	if _, err := s.products.FindProduct(ctx, input.ProductID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	rating := &models.Rating{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Stars:     input.Stars,
		Review:    strings.TrimSpace(input.Review),
	}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rating")
	}
	return rating, nil
}

func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID) (*ProductRatings, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	items, err := s.repo.ListByProduct(ctx, productID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}
	summary, err := s.repo.Summary(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ratings")
	}

	return &ProductRatings{
		Items:   items,
		Average: summary.Average,
		Count:   summary.Count,
	}, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id required")
	}

	deleted, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rating")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
	}
	return nil
}
