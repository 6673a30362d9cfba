package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionhub/storefront-backend/internal/cart"
	"github.com/fashionhub/storefront-backend/internal/inventory"
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string, level enums.NotificationLevel)
}

// Service is the only writer of order status and payment fields.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	CheckoutCart(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*models.Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor Actor, note string) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, reason string) (*models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID, actor Actor) error
	MarkPaid(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error)
	ConfirmReceipt(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, input ListInput) (*Page, error)
}

type service struct {
	repo         Repository
	tx           txRunner
	products     productLoader
	carts        cart.Repository
	sink         notifier
	table        TransitionTable
	cancelWindow time.Duration
}

// NewService builds the order service. A nil table falls back to the default
// fulfilment pipeline.
func NewService(repo Repository, tx txRunner, products productLoader, carts cart.Repository, sink notifier, table TransitionTable, cancelWindow time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	if table == nil {
		table = DefaultTransitions()
	}
	if cancelWindow <= 0 {
		cancelWindow = 30 * time.Minute
	}
	return &service{
		repo:         repo,
		tx:           tx,
		products:     products,
		carts:        carts,
		sink:         sink,
		table:        table,
		cancelWindow: cancelWindow,
	}, nil
}

// CreateOrder reserves stock, snapshots prices, and persists the order as a
// single atomic unit. Any reservation failure aborts the whole checkout.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	order, err := s.createOrder(ctx, input, nil)
	if err != nil {
		return nil, err
	}
	s.notifyCustomer(ctx, order, "Order placed",
		fmt.Sprintf("Your order for %s has been placed.", describeLines(order.Lines)),
		enums.NotificationLevelSuccess)
	return order, nil
}

// CheckoutCart converts the customer's active cart into an order and empties
// the cart in the same transaction, so a failed checkout leaves the cart
// untouched.
func (s *service) CheckoutCart(ctx context.Context, customerID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	record, err := s.carts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if cart.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]LineInput, 0, len(record.Items))
	for _, item := range record.Items {
		lines = append(lines, LineInput{
			ProductID: item.ProductID,
			SizeID:    item.SizeID,
			Quantity:  item.Quantity,
		})
	}

	create := CreateOrderInput{
		Customer:      input.Customer,
		Lines:         lines,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	if create.Customer.CustomerID == nil {
		create.Customer.CustomerID = &customerID
	}

	order, err := s.createOrder(ctx, create, record)
	if err != nil {
		return nil, err
	}
	s.notifyCustomer(ctx, order, "Order placed",
		fmt.Sprintf("Your order for %s has been placed.", describeLines(order.Lines)),
		enums.NotificationLevelSuccess)
	return order, nil
}

// createOrder runs checkout steps 1-4 inside one transaction. When
// sourceCart is non-nil its items are cleared and the cart marked converted
// as step 5, still inside the same transaction.
func (s *service) createOrder(ctx context.Context, input CreateOrderInput, sourceCart *models.CartRecord) (*models.Order, error) {
	if err := input.Customer.validate(); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
	}

	// Snapshot sources are read up front; the conditional reservation
	// updates are what guard against concurrent stock changes.
	snapshots := make([]*models.Product, len(input.Lines))
	for i, line := range input.Lines {
		product, err := s.products.FindProduct(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) || IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if err := validateSizeChoice(product, line.SizeID); err != nil {
			return nil, err
		}
		snapshots[i] = product
	}

	var order *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		requests := make([]inventory.ReservationRequest, len(input.Lines))
		for i, line := range input.Lines {
			requests[i] = inventory.ReservationRequest{
				LineID:    uuid.New(),
				ProductID: line.ProductID,
				SizeID:    line.SizeID,
				Qty:       line.Quantity,
			}
		}

		results, err := inventory.Reserve(ctx, tx, requests)
		if err != nil {
			return err
		}
		if failure := inventory.FirstFailure(results); failure != nil {
			name := ""
			for i, req := range requests {
				if req.LineID == failure.LineID {
					name = snapshots[i].Name
				}
			}
			// Transaction rollback undoes the reservations that did
			// succeed in this batch.
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product_id":   failure.ProductID,
					"product_name": name,
					"reason":       failure.Reason,
				})
		}

		order = buildOrder(input, snapshots)
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		if err := txRepo.AppendEvent(ctx, &models.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    enums.OrderStatusPending,
			Note:      "order placed",
			ActorType: actorTypeFor(input.Customer.CustomerID),
			ActorID:   input.Customer.CustomerID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append event")
		}

		if sourceCart != nil {
			txCarts := s.carts.WithTx(tx)
			if err := txCarts.DeleteItems(ctx, sourceCart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
			}
			if err := txCarts.UpdateStatus(ctx, sourceCart.ID, enums.CartStatusConverted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: convert cart")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return s.repo.FindByID(ctx, order.ID)
}

// Transition moves the order to next per the transition table. Moving into
// cancelled releases all reserved stock.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor Actor, note string) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrderForUpdate(ctx, txRepo, orderID)
		if err != nil {
			return err
		}

		if !s.table.Allows(order.Status, next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
				WithDetails(map[string]any{
					"from":    order.Status,
					"to":      next,
					"allowed": s.table.Next(order.Status),
				})
		}

		if next == enums.OrderStatusCancelled {
			if err := s.applyCancellation(ctx, tx, txRepo, order, actor, note); err != nil {
				return err
			}
		} else {
			order.Status = next
			if err := txRepo.Save(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
			}
			if err := txRepo.AppendEvent(ctx, &models.OrderStatusEvent{
				OrderID:   order.ID,
				Status:    next,
				Note:      note,
				ActorType: actor.Type,
				ActorID:   actor.ID,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append event")
			}
		}
		updated = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order")
	}

	s.notifyCustomer(ctx, updated, "Order update", statusMessage(updated.Status), levelFor(updated.Status))
	return s.repo.FindByID(ctx, updated.ID)
}

// Cancel cancels the order and restores stock. Customer-initiated
// cancellation is time-boxed and blocked once the order has shipped;
// operator and system cancellation follow only the transition table.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, reason string) (*models.Order, error) {
	var updated *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrderForUpdate(ctx, txRepo, orderID)
		if err != nil {
			return err
		}

		if err := s.checkCancellable(order, actor); err != nil {
			return err
		}
		if err := s.applyCancellation(ctx, tx, txRepo, order, actor, reason); err != nil {
			return err
		}
		updated = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}

	s.notifyCustomer(ctx, updated, "Order cancelled",
		fmt.Sprintf("Your order has been cancelled: %s", reason),
		enums.NotificationLevelWarning)
	return s.repo.FindByID(ctx, updated.ID)
}

// Delete removes the order record. A not-yet-cancelled order is cancelled
// first so stock release always rides with an audit entry, never silently.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	var cancelled *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrderForUpdate(ctx, txRepo, orderID)
		if err != nil {
			return err
		}

		if order.Status != enums.OrderStatusCancelled {
			if err := s.applyCancellation(ctx, tx, txRepo, order, actor, "order removed"); err != nil {
				return err
			}
			cancelled = order
		}
		return txRepo.Delete(ctx, order.ID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}

	if cancelled != nil {
		s.notifyCustomer(ctx, cancelled, "Order cancelled",
			"Your order has been cancelled and removed.",
			enums.NotificationLevelWarning)
	}
	return nil
}

// MarkPaid flips the payment-confirmed flag. Calling it on an already-paid
// order is a no-op; it never changes status.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error) {
	var updated *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrderForUpdate(ctx, txRepo, orderID)
		if err != nil {
			return err
		}
		if order.PaymentConfirmed {
			updated = order
			return nil
		}

		order.PaymentConfirmed = true
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark paid")
		}
		if err := txRepo.AppendEvent(ctx, &models.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    order.Status,
			Note:      "payment confirmed",
			ActorType: actor.Type,
			ActorID:   actor.ID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append event")
		}
		updated = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}

	s.notifyCustomer(ctx, updated, "Payment received",
		"We have received your payment.", enums.NotificationLevelSuccess)
	return s.repo.FindByID(ctx, updated.ID)
}

// ConfirmReceipt records that the customer confirmed delivery. Permitted
// once, and only while the order is delivered.
func (s *service) ConfirmReceipt(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	var updated *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := s.loadOrderForUpdate(ctx, txRepo, orderID)
		if err != nil {
			return err
		}
		if order.Customer == nil || *order.Customer != customerID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "receipt can only be confirmed for delivered orders").
				WithDetails(map[string]any{"status": order.Status})
		}
		if order.ReceiptConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "receipt already confirmed")
		}

		now := time.Now().UTC()
		order.ReceiptConfirmed = true
		order.ReceiptConfirmedAt = &now
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: confirm receipt")
		}
		if err := txRepo.AppendEvent(ctx, &models.OrderStatusEvent{
			OrderID:   order.ID,
			Status:    order.Status,
			Note:      "receipt confirmed by customer",
			ActorType: enums.ActorTypeCustomer,
			ActorID:   &customerID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append event")
		}
		updated = order
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm receipt")
	}

	s.notifyCustomer(ctx, updated, "Receipt confirmed",
		"Thanks for confirming you received your order.", enums.NotificationLevelSuccess)
	return s.repo.FindByID(ctx, updated.ID)
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, input ListInput) (*Page, error) {
	rows, hasMore, err := s.repo.List(ctx, ListQuery{
		CustomerID: input.CustomerID,
		Status:     input.Status,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &Page{Orders: rows, HasMore: hasMore}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) loadOrderForUpdate(ctx context.Context, txRepo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := txRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) checkCancellable(order *models.Order, actor Actor) error {
	if !s.table.Allows(order.Status, enums.OrderStatusCancelled) {
		return pkgerrors.New(pkgerrors.CodeNotCancellable, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": order.Status})
	}
	if actor.Type != enums.ActorTypeCustomer {
		return nil
	}

	switch order.Status {
	case enums.OrderStatusShipped, enums.OrderStatusDelivered:
		return pkgerrors.New(pkgerrors.CodeNotCancellable, "order has already shipped").
			WithDetails(map[string]any{"status": order.Status})
	}
	if age := time.Since(order.CreatedAt); age > s.cancelWindow {
		return pkgerrors.New(pkgerrors.CodeNotCancellable, "cancellation window has passed").
			WithDetails(map[string]any{
				"window_minutes": int(s.cancelWindow.Minutes()),
				"age_minutes":    int(age.Minutes()),
			})
	}
	return nil
}

// applyCancellation moves the order to cancelled and releases line stock.
// The status write is a conditional UPDATE guarded against terminal states,
// so two concurrent cancellation paths (customer cancel, admin delete,
// payment-verify failure) can never both release the same stock: the loser
// sees zero rows affected and backs out before touching inventory.
func (s *service) applyCancellation(ctx context.Context, tx *gorm.DB, txRepo Repository, order *models.Order, actor Actor, reason string) error {
	if reason == "" {
		reason = "cancelled"
	}

	claim := tx.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", order.ID, []enums.OrderStatus{
			enums.OrderStatusCancelled,
			enums.OrderStatusDelivered,
		}).
		Updates(map[string]any{
			"status":              enums.OrderStatusCancelled,
			"cancellation_reason": reason,
		})
	if claim.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, claim.Error, "db: cancel order")
	}
	if claim.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order was already finalized").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	order.Status = enums.OrderStatusCancelled
	order.CancellationReason = &reason

	items := make([]inventory.ReleaseItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		if line.ProductID == nil {
			continue
		}
		items = append(items, inventory.ReleaseItem{
			ProductID: *line.ProductID,
			SizeID:    line.SizeID,
			Qty:       line.Quantity,
		})
	}
	if err := inventory.Release(ctx, tx, items); err != nil {
		return err
	}

	return txRepo.AppendEvent(ctx, &models.OrderStatusEvent{
		OrderID:   order.ID,
		Status:    enums.OrderStatusCancelled,
		Note:      reason,
		ActorType: actor.Type,
		ActorID:   actor.ID,
	})
}

func (s *service) notifyCustomer(ctx context.Context, order *models.Order, title, message string, level enums.NotificationLevel) {
	if order == nil || order.Customer == nil {
		return
	}
	s.sink.Notify(ctx, *order.Customer, title, message, level)
}

func buildOrder(input CreateOrderInput, snapshots []*models.Product) *models.Order {
	order := &models.Order{
		Customer:      input.Customer.CustomerID,
		FullName:      input.Customer.FullName,
		Email:         input.Customer.Email,
		Phone:         input.Customer.Phone,
		Address:       input.Customer.Address,
		City:          input.Customer.City,
		State:         input.Customer.State,
		PostalCode:    input.Customer.PostalCode,
		ReceiverName:  input.Customer.ReceiverName,
		ReceiverPhone: input.Customer.ReceiverPhone,
		Status:        enums.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		OrderNotes:    input.Notes,
	}

	total := decimal.Zero
	for i, line := range input.Lines {
		product := snapshots[i]
		productID := product.ID
		orderLine := models.OrderLine{
			ProductID:   &productID,
			ProductName: product.Name,
			SizeID:      line.SizeID,
			SizeName:    snapshotSizeName(product, line.SizeID),
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
		}
		total = total.Add(orderLine.Subtotal())
		order.Lines = append(order.Lines, orderLine)
	}
	order.TotalAmount = total.Round(2)
	return order
}

func validateSizeChoice(product *models.Product, sizeID *uuid.UUID) error {
	if product.Sized() {
		if sizeID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "size is required for this product").
				WithDetails(map[string]any{"product_id": product.ID})
		}
		for _, ss := range product.SizeStocks {
			if ss.SizeID == *sizeID {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product").
			WithDetails(map[string]any{"product_id": product.ID})
	}
	if sizeID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product has no size partitions").
			WithDetails(map[string]any{"product_id": product.ID})
	}
	return nil
}

func snapshotSizeName(product *models.Product, sizeID *uuid.UUID) string {
	if sizeID == nil {
		return ""
	}
	for _, ss := range product.SizeStocks {
		if ss.SizeID == *sizeID && ss.Size != nil {
			return ss.Size.Name
		}
	}
	return ""
}

func actorTypeFor(customerID *uuid.UUID) enums.ActorType {
	if customerID != nil {
		return enums.ActorTypeCustomer
	}
	return enums.ActorTypeSystem
}

func describeLines(lines []models.OrderLine) string {
	if len(lines) == 1 {
		return fmt.Sprintf("%d x %s", lines[0].Quantity, lines[0].ProductName)
	}
	return fmt.Sprintf("%d items", len(lines))
}

func statusMessage(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusConfirmed:
		return "Your order has been confirmed."
	case enums.OrderStatusProcessing:
		return "Your order is being processed."
	case enums.OrderStatusPacked:
		return "Your order has been packed."
	case enums.OrderStatusShipped:
		return "Your order has shipped."
	case enums.OrderStatusDelivered:
		return "Your order has been delivered."
	case enums.OrderStatusCancelled:
		return "Your order has been cancelled."
	default:
		return "Your order status has been updated."
	}
}

func levelFor(status enums.OrderStatus) enums.NotificationLevel {
	switch status {
	case enums.OrderStatusCancelled:
		return enums.NotificationLevelWarning
	case enums.OrderStatusDelivered:
		return enums.NotificationLevelSuccess
	default:
		return enums.NotificationLevelInfo
	}
}
