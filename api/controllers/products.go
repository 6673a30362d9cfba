package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fashionhub/storefront-backend/api/responses"
	"github.com/fashionhub/storefront-backend/api/validators"
	"github.com/fashionhub/storefront-backend/internal/catalog"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
)

// ListProducts serves the public catalog listing with search and cursor
// pagination.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := catalog.ListProductsInput{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
		}

		if featured := strings.TrimSpace(r.URL.Query().Get("featured")); featured != "" {
			value, err := strconv.ParseBool(featured)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid featured value"))
				return
			}
			input.Featured = &value
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Pagination = pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		page, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct serves one product with its size partitions.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListSizes serves the size dictionary.
func ListSizes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sizes, err := svc.ListSizes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sizes": sizes})
	}
}

type sizeStockPayload struct {
	SizeID uuid.UUID `json:"size_id" validate:"required"`
	Stock  int       `json:"stock" validate:"min=0"`
}

type createProductRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price" validate:"required"`
	Stock       int                `json:"stock" validate:"min=0"`
	Tags        string             `json:"tags"`
	Featured    bool               `json:"featured"`
	SizeStocks  []sizeStockPayload `json:"size_stocks" validate:"dive"`
}

// AdminCreateProduct creates a catalog product, optionally size-partitioned.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{
			Name:        validators.SanitizeString(payload.Name, 200),
			Description: strings.TrimSpace(payload.Description),
			Price:       payload.Price,
			Stock:       payload.Stock,
			Tags:        validators.SanitizeString(payload.Tags, 500),
			Featured:    payload.Featured,
		}
		for _, ss := range payload.SizeStocks {
			input.SizeStocks = append(input.SizeStocks, catalog.SizeStockInput{SizeID: ss.SizeID, Stock: ss.Stock})
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name        *string             `json:"name" validate:"omitempty,max=200"`
	Description *string             `json:"description"`
	Price       *decimal.Decimal    `json:"price"`
	Tags        *string             `json:"tags"`
	Featured    *bool               `json:"featured"`
	SizeStocks  *[]sizeStockPayload `json:"size_stocks" validate:"omitempty,dive"`
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Tags:        payload.Tags,
			Featured:    payload.Featured,
		}
		if payload.SizeStocks != nil {
			rows := make([]catalog.SizeStockInput, 0, len(*payload.SizeStocks))
			for _, ss := range *payload.SizeStocks {
				rows = append(rows, catalog.SizeStockInput{SizeID: ss.SizeID, Stock: ss.Stock})
			}
			input.SizeStocks = &rows
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type restockRequest struct {
	SizeID *uuid.UUID `json:"size_id"`
	Stock  int        `json:"stock" validate:"min=0"`
}

// AdminRestock sets the absolute stock level for a product or one of its
// size partitions.
func AdminRestock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload restockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Restock(r.Context(), productID, payload.SizeID, payload.Stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type adjustStockRequest struct {
	SizeID *uuid.UUID `json:"size_id"`
	Delta  int        `json:"delta" validate:"required"`
}

// AdminAdjustStock applies a signed correction to the on-hand level, for
// shrinkage and recount fixes. Negative deltas cannot take stock below zero.
func AdminAdjustStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), productID, payload.SizeID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createSizeRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// AdminCreateSize adds a size to the dictionary.
func AdminCreateSize(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		size, err := svc.CreateSize(r.Context(), validators.SanitizeString(payload.Name, 50), strings.TrimSpace(payload.Description), payload.SortOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, size)
	}
}
