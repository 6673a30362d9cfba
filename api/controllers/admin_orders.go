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

// AdminListOrders returns orders across all customers with optional filters.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := orders.ListInput{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			input.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("customerId")); raw != "" {
			customerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}
			input.CustomerID = &customerID
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

// AdminGetOrder returns any order with lines and status history.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		responses.WriteSuccess(w, order)
	}
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
	Reason string `json:"reason" validate:"max=500"`
}

// AdminTransitionOrder moves an order along the fulfilment pipeline. Moving
// to cancelled routes through the cancellation side effects.
func AdminTransitionOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actor := orders.SystemActor()
		if id := operatorID(r); id != nil {
			actor = orders.OperatorActor(*id)
		}

		if next == enums.OrderStatusCancelled {
			reason := strings.TrimSpace(payload.Reason)
			if reason == "" {
				reason = "cancelled by operator"
			}
			updated, err := svc.Cancel(r.Context(), orderID, actor, reason)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, updated)
			return
		}

		updated, err := svc.Transition(r.Context(), orderID, next, actor, strings.TrimSpace(payload.Note))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminMarkPaid records payment received for an order (COD collection or a
// manual reconciliation). Idempotent.
func AdminMarkPaid(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := orders.SystemActor()
		if id := operatorID(r); id != nil {
			actor = orders.OperatorActor(*id)
		}

		order, err := svc.MarkPaid(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminDeleteOrder hard-deletes an order after running cancellation side
// effects for any live stock it still holds.
func AdminDeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := orders.SystemActor()
		if id := operatorID(r); id != nil {
			actor = orders.OperatorActor(*id)
		}

		if err := svc.Delete(r.Context(), orderID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
