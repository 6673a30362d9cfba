package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fashionhub/storefront-backend/internal/orders"
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/khalti"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubGateway struct {
	initiateResult *khalti.InitiateResult
	initiateErr    error
	lookupResult   *khalti.LookupResult
	lookupErr      error
	initiated      []khalti.InitiateParams
}

func (g *stubGateway) Initiate(_ context.Context, params khalti.InitiateParams) (*khalti.InitiateResult, error) {
	g.initiated = append(g.initiated, params)
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	return g.initiateResult, nil
}

func (g *stubGateway) Lookup(_ context.Context, _ string) (*khalti.LookupResult, error) {
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	return g.lookupResult, nil
}

type memorySessions struct {
	values map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{values: map[string]string{}}
}

func (m *memorySessions) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = fmt.Sprint(value)
	return nil
}

func (m *memorySessions) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("not found")
	}
	return v, nil
}

func (m *memorySessions) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memorySessions) PaymentSessionKey(ref string) string {
	return "payment:session:" + ref
}

type stubOrders struct {
	order       *models.Order
	markedPaid  int
	transitions []enums.OrderStatus
	cancels     []string
}

func (o *stubOrders) GetOrder(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if o.order == nil || o.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return o.order, nil
}

func (o *stubOrders) MarkPaid(_ context.Context, _ uuid.UUID, _ orders.Actor) (*models.Order, error) {
	o.markedPaid++
	o.order.PaymentConfirmed = true
	return o.order, nil
}

func (o *stubOrders) Transition(_ context.Context, _ uuid.UUID, next enums.OrderStatus, _ orders.Actor, _ string) (*models.Order, error) {
	o.transitions = append(o.transitions, next)
	o.order.Status = next
	return o.order, nil
}

func (o *stubOrders) Cancel(_ context.Context, _ uuid.UUID, _ orders.Actor, reason string) (*models.Order, error) {
	o.cancels = append(o.cancels, reason)
	o.order.Status = enums.OrderStatusCancelled
	return o.order, nil
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		FullName:      "Asha Shrestha",
		Email:         "asha@example.com",
		Phone:         "+977-9800000000",
		TotalAmount:   decimal.RequireFromString("130.00"),
		PaymentMethod: enums.PaymentMethodKhalti,
		Status:        enums.OrderStatusPending,
	}
}

func newTestService(t *testing.T, gw *stubGateway, sessions *memorySessions, ordersStub *stubOrders) Service {
	t.Helper()
	svc, err := NewService(gw, sessions, ordersStub, time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestInitiateStoresSession(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{initiateResult: &khalti.InitiateResult{
		Pidx:       "pidx-123",
		PaymentURL: "https://pay.khalti.com/?pidx=pidx-123",
	}}
	sessions := newMemorySessions()
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, sessions, ordersStub)

	result, err := svc.Initiate(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if result.Pidx != "pidx-123" || result.PaymentURL == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(gw.initiated) != 1 {
		t.Fatalf("expected 1 gateway call, got %d", len(gw.initiated))
	}
	if got := gw.initiated[0].AmountPaisa; got != 13000 {
		t.Fatalf("expected 13000 paisa, got %d", got)
	}
	stored, err := sessions.Get(context.Background(), sessions.PaymentSessionKey("pidx-123"))
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if stored != order.ID.String() {
		t.Fatalf("session maps to %q, want %q", stored, order.ID)
	}
}

func TestInitiateRejectsNonGatewayMethod(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	order.PaymentMethod = enums.PaymentMethodCashOnDelivery
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, &stubGateway{}, newMemorySessions(), ordersStub)

	if _, err := svc.Initiate(context.Background(), order.ID); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ordersStub.cancels) != 0 {
		t.Fatalf("rejected initiation must not cancel the order")
	}
}

func TestInitiateRequiresContactDetails(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	order.Email = ""
	order.Phone = ""
	gw := &stubGateway{}
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, newMemorySessions(), ordersStub)

	_, err := svc.Initiate(context.Background(), order.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details on error, got %v", err)
	}
	missing, ok := details["missing"].([]string)
	if !ok || len(missing) != 2 || missing[0] != "email" || missing[1] != "phone" {
		t.Fatalf("expected missing email and phone, got %v", details["missing"])
	}
	if len(gw.initiated) != 0 {
		t.Fatalf("incomplete contact details must not reach the gateway")
	}
	if len(ordersStub.cancels) != 0 {
		t.Fatalf("rejected initiation must not cancel the order")
	}
}

func TestInitiateFailureCancelsOrder(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{initiateErr: pkgerrors.New(pkgerrors.CodeGatewayRejected, "invalid merchant")}
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, newMemorySessions(), ordersStub)

	_, err := svc.Initiate(context.Background(), order.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayRejected) {
		t.Fatalf("expected gateway rejection, got %v", err)
	}
	if len(ordersStub.cancels) != 1 || ordersStub.cancels[0] != "payment initiation failed" {
		t.Fatalf("expected one cancellation, got %v", ordersStub.cancels)
	}
}

func TestVerifyCompletedMarksPaid(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{lookupResult: &khalti.LookupResult{
		Pidx:        "pidx-ok",
		Status:      khalti.StatusCompleted,
		TotalAmount: 13000,
	}}
	sessions := newMemorySessions()
	sessions.values[sessions.PaymentSessionKey("pidx-ok")] = order.ID.String()
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, sessions, ordersStub)

	updated, err := svc.Verify(context.Background(), "pidx-ok")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ordersStub.markedPaid != 1 {
		t.Fatalf("expected one MarkPaid call, got %d", ordersStub.markedPaid)
	}
	if len(ordersStub.transitions) != 1 || ordersStub.transitions[0] != enums.OrderStatusProcessing {
		t.Fatalf("expected transition to processing, got %v", ordersStub.transitions)
	}
	if updated.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}
	if _, err := sessions.Get(context.Background(), sessions.PaymentSessionKey("pidx-ok")); err == nil {
		t.Fatalf("session should be deleted after verification")
	}
}

func TestVerifyAmountMismatchCancels(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{lookupResult: &khalti.LookupResult{
		Pidx:        "pidx-short",
		Status:      khalti.StatusCompleted,
		TotalAmount: 9999,
	}}
	sessions := newMemorySessions()
	sessions.values[sessions.PaymentSessionKey("pidx-short")] = order.ID.String()
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, sessions, ordersStub)

	_, err := svc.Verify(context.Background(), "pidx-short")
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayRejected) {
		t.Fatalf("expected gateway rejection, got %v", err)
	}
	if len(ordersStub.cancels) != 1 || ordersStub.cancels[0] != "payment amount mismatch" {
		t.Fatalf("expected mismatch cancellation, got %v", ordersStub.cancels)
	}
	if ordersStub.markedPaid != 0 {
		t.Fatalf("mismatched payment must not mark the order paid")
	}
}

func TestVerifyTimeoutLeavesOrderPending(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{lookupErr: pkgerrors.New(pkgerrors.CodeGatewayTimeout, "gateway timed out")}
	sessions := newMemorySessions()
	sessions.values[sessions.PaymentSessionKey("pidx-slow")] = order.ID.String()
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, sessions, ordersStub)

	_, err := svc.Verify(context.Background(), "pidx-slow")
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if len(ordersStub.cancels) != 0 {
		t.Fatalf("timeout must not cancel the order")
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("order should stay pending, got %s", order.Status)
	}
	if _, err := sessions.Get(context.Background(), sessions.PaymentSessionKey("pidx-slow")); err != nil {
		t.Fatalf("session should survive a timeout for retry")
	}
}

func TestVerifyFailedStatusCancels(t *testing.T) {
	t.Parallel()
	order := pendingOrder()
	gw := &stubGateway{lookupResult: &khalti.LookupResult{
		Pidx:   "pidx-expired",
		Status: "Expired",
	}}
	sessions := newMemorySessions()
	sessions.values[sessions.PaymentSessionKey("pidx-expired")] = order.ID.String()
	ordersStub := &stubOrders{order: order}
	svc := newTestService(t, gw, sessions, ordersStub)

	_, err := svc.Verify(context.Background(), "pidx-expired")
	if !pkgerrors.HasCode(err, pkgerrors.CodeGatewayRejected) {
		t.Fatalf("expected gateway rejection, got %v", err)
	}
	if len(ordersStub.cancels) != 1 {
		t.Fatalf("expected one cancellation, got %v", ordersStub.cancels)
	}
}

func TestVerifyUnknownSession(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &stubGateway{}, newMemorySessions(), &stubOrders{order: pendingOrder()})
	if _, err := svc.Verify(context.Background(), "pidx-missing"); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
