package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fashionhub/storefront-backend/api/responses"
	"github.com/fashionhub/storefront-backend/api/validators"
	"github.com/fashionhub/storefront-backend/internal/orders"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/logger"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
)

type customerInfoPayload struct {
	FullName      string  `json:"full_name" validate:"required,max=200"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required,max=30"`
	Address       string  `json:"address" validate:"required,max=300"`
	City          string  `json:"city" validate:"required,max=100"`
	State         string  `json:"state" validate:"max=100"`
	PostalCode    string  `json:"postal_code" validate:"max=20"`
	ReceiverName  *string `json:"receiver_name"`
	ReceiverPhone *string `json:"receiver_phone"`
}

func (p customerInfoPayload) toCustomerInfo(customerID uuid.UUID) orders.CustomerInfo {
	return orders.CustomerInfo{
		CustomerID:    &customerID,
		FullName:      strings.TrimSpace(p.FullName),
		Email:         strings.TrimSpace(p.Email),
		Phone:         strings.TrimSpace(p.Phone),
		Address:       strings.TrimSpace(p.Address),
		City:          strings.TrimSpace(p.City),
		State:         strings.TrimSpace(p.State),
		PostalCode:    strings.TrimSpace(p.PostalCode),
		ReceiverName:  p.ReceiverName,
		ReceiverPhone: p.ReceiverPhone,
	}
}

type checkoutRequest struct {
	Customer      customerInfoPayload `json:"customer" validate:"required"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	Notes         string              `json:"notes"`
}

// Checkout converts the caller's active cart into a pending order.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.CheckoutCart(r.Context(), customerID, orders.CheckoutInput{
			Customer:      payload.Customer.toCustomerInfo(customerID),
			PaymentMethod: method,
			Notes:         strings.TrimSpace(payload.Notes),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type orderLinePayload struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	SizeID    *uuid.UUID `json:"size_id"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	Customer      customerInfoPayload `json:"customer" validate:"required"`
	Lines         []orderLinePayload  `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	Notes         string              `json:"notes"`
}

// CreateOrder places an order from an explicit line list (buy now), skipping
// the cart entirely.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := orders.CreateOrderInput{
			Customer:      payload.Customer.toCustomerInfo(customerID),
			PaymentMethod: method,
			Notes:         strings.TrimSpace(payload.Notes),
		}
		for _, line := range payload.Lines {
			input.Lines = append(input.Lines, orders.LineInput{
				ProductID: line.ProductID,
				SizeID:    line.SizeID,
				Quantity:  line.Quantity,
			})
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders returns the caller's orders, newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.ListInput{CustomerID: &customerID}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			input.Status = &status
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

		page, err := svc.ListOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetOrder returns one of the caller's orders with lines and status history.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.Customer == nil || *order.Customer != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CancelOrder lets the customer cancel a young, unshipped order.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.Customer == nil || *order.Customer != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		reason := strings.TrimSpace(payload.Reason)
		if reason == "" {
			reason = "cancelled by customer"
		}
		updated, err := svc.Cancel(r.Context(), orderID, orders.CustomerActor(customerID), reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ConfirmReceipt records that the customer received a delivered order.
func ConfirmReceipt(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmReceipt(r.Context(), orderID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
