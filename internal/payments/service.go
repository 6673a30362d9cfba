package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionhub/storefront-backend/internal/orders"
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/khalti"
	"github.com/google/uuid"
)

type gateway interface {
	Initiate(ctx context.Context, params khalti.InitiateParams) (*khalti.InitiateResult, error)
	Lookup(ctx context.Context, pidx string) (*khalti.LookupResult, error)
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PaymentSessionKey(ref string) string
}

type orderManager interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, actor orders.Actor) (*models.Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor orders.Actor, note string) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor orders.Actor, reason string) (*models.Order, error)
}

// Service drives the gateway payment flow for orders whose payment method
// requires one.
type Service interface {
	Initiate(ctx context.Context, orderID uuid.UUID) (*InitiateResult, error)
	Verify(ctx context.Context, pidx string) (*models.Order, error)
}

// InitiateResult carries the hosted checkout redirect for the caller.
type InitiateResult struct {
	OrderID    uuid.UUID `json:"order_id"`
	Pidx       string    `json:"pidx"`
	PaymentURL string    `json:"payment_url"`
}

type service struct {
	gateway    gateway
	sessions   sessionStore
	orders     orderManager
	sessionTTL time.Duration
}

// NewService builds the payment confirmation service.
func NewService(gw gateway, sessions sessionStore, orderSvc orderManager, sessionTTL time.Duration) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &service{
		gateway:    gw,
		sessions:   sessions,
		orders:     orderSvc,
		sessionTTL: sessionTTL,
	}, nil
}

// Initiate registers the order with the gateway and stores the pidx session
// for the later verification callback. A gateway failure here cancels the
// order and restores its stock, so nothing stays reserved for a checkout
// that cannot be paid.
func (s *service) Initiate(ctx context.Context, orderID uuid.UUID) (*InitiateResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.PaymentMethod.RequiresGateway() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order payment method does not use a gateway").
			WithDetails(map[string]any{"payment_method": order.PaymentMethod})
	}
	if order.PaymentConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment can only be initiated for pending orders").
			WithDetails(map[string]any{"status": order.Status})
	}
	if !order.TotalAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}
	if missing := missingContactFields(order); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is missing customer contact details").
			WithDetails(map[string]any{"missing": missing})
	}

	result, err := s.gateway.Initiate(ctx, khalti.InitiateParams{
		AmountPaisa:       amountPaisa(order),
		PurchaseOrderID:   order.ID.String(),
		PurchaseOrderName: fmt.Sprintf("FashionHub order %s", shortID(order.ID)),
		Customer: khalti.CustomerInfo{
			Name:  order.FullName,
			Email: order.Email,
			Phone: order.Phone,
		},
	})
	if err != nil {
		if _, cancelErr := s.orders.Cancel(ctx, order.ID, orders.SystemActor(), "payment initiation failed"); cancelErr != nil {
			return nil, cancelErr
		}
		return nil, err
	}

	key := s.sessions.PaymentSessionKey(result.Pidx)
	if err := s.sessions.Set(ctx, key, order.ID.String(), s.sessionTTL); err != nil {
		if _, cancelErr := s.orders.Cancel(ctx, order.ID, orders.SystemActor(), "payment session could not be stored"); cancelErr != nil {
			return nil, cancelErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment session")
	}

	return &InitiateResult{
		OrderID:    order.ID,
		Pidx:       result.Pidx,
		PaymentURL: result.PaymentURL,
	}, nil
}

// Verify resolves the gateway callback. A settled payment with a matching
// amount marks the order paid and moves it to processing; a definitive
// gateway failure or an amount mismatch cancels the order. A timeout leaves
// the order untouched for later reconciliation.
func (s *service) Verify(ctx context.Context, pidx string) (*models.Order, error) {
	key := s.sessions.PaymentSessionKey(pidx)
	raw, err := s.sessions.Get(ctx, key)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown payment session")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt payment session")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Lookup(ctx, pidx)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeGatewayTimeout) {
			// Unconfirmed, not failed: keep the order pending.
			return nil, err
		}
		if _, cancelErr := s.orders.Cancel(ctx, order.ID, orders.SystemActor(), "payment verification failed"); cancelErr != nil {
			return nil, cancelErr
		}
		return nil, err
	}

	if !result.Completed() {
		if result.Status == khalti.StatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed yet").
				WithDetails(map[string]any{"status": result.Status})
		}
		if _, cancelErr := s.orders.Cancel(ctx, order.ID, orders.SystemActor(),
			fmt.Sprintf("payment %s", result.Status)); cancelErr != nil {
			return nil, cancelErr
		}
		return nil, pkgerrors.New(pkgerrors.CodeGatewayRejected, "payment was not completed").
			WithDetails(map[string]any{"status": result.Status})
	}

	if expected := amountPaisa(order); result.TotalAmount != expected {
		if _, cancelErr := s.orders.Cancel(ctx, order.ID, orders.SystemActor(), "payment amount mismatch"); cancelErr != nil {
			return nil, cancelErr
		}
		return nil, pkgerrors.New(pkgerrors.CodeGatewayRejected, "payment amount mismatch").
			WithDetails(map[string]any{
				"expected_paisa": expected,
				"received_paisa": result.TotalAmount,
			})
	}

	if _, err := s.orders.MarkPaid(ctx, order.ID, orders.SystemActor()); err != nil {
		return nil, err
	}
	updated, err := s.orders.Transition(ctx, order.ID, enums.OrderStatusProcessing, orders.SystemActor(), "payment verified")
	if err != nil {
		return nil, err
	}

	_ = s.sessions.Del(ctx, key)
	return updated, nil
}

// missingContactFields lists the contact fields the gateway needs that the
// order does not carry. Order creation validates these, but orders can also
// arrive here after admin edits or imports.
func missingContactFields(order *models.Order) []string {
	var missing []string
	if order.FullName == "" {
		missing = append(missing, "full_name")
	}
	if order.Email == "" {
		missing = append(missing, "email")
	}
	if order.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// amountPaisa converts the order total to the gateway's minor currency unit.
func amountPaisa(order *models.Order) int64 {
	return order.TotalAmount.Shift(2).IntPart()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
