package controllers

import (
	"net/http"
	"strings"

	"github.com/fashionhub/storefront-backend/api/responses"
	"github.com/fashionhub/storefront-backend/internal/orders"
	"github.com/fashionhub/storefront-backend/internal/payments"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/logger"
)

// InitiatePayment starts the gateway checkout for one of the caller's
// pending orders and returns the hosted payment URL.
func InitiatePayment(paymentsSvc payments.Service, ordersSvc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		order, err := ordersSvc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.Customer == nil || *order.Customer != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		result, err := paymentsSvc.Initiate(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VerifyPayment resolves the gateway return callback identified by pidx.
func VerifyPayment(paymentsSvc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pidx := strings.TrimSpace(r.URL.Query().Get("pidx"))
		if pidx == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pidx query parameter required"))
			return
		}

		order, err := paymentsSvc.Verify(r.Context(), pidx)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
