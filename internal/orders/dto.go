package orders

import (
	"strings"

	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	pkgerrors "github.com/fashionhub/storefront-backend/pkg/errors"
	"github.com/fashionhub/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Actor identifies who is driving an order operation.
type Actor struct {
	Type enums.ActorType
	ID   *uuid.UUID
}

// SystemActor is the actor recorded for engine-initiated changes such as
// payment callbacks.
func SystemActor() Actor {
	return Actor{Type: enums.ActorTypeSystem}
}

// CustomerActor tags an operation as customer-initiated.
func CustomerActor(id uuid.UUID) Actor {
	return Actor{Type: enums.ActorTypeCustomer, ID: &id}
}

// OperatorActor tags an operation as staff-initiated.
func OperatorActor(id uuid.UUID) Actor {
	return Actor{Type: enums.ActorTypeOperator, ID: &id}
}

// CustomerInfo is the contact and delivery snapshot frozen onto the order.
type CustomerInfo struct {
	CustomerID    *uuid.UUID
	FullName      string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	PostalCode    string
	ReceiverName  *string
	ReceiverPhone *string
}

func (c CustomerInfo) validate() error {
	missing := []string{}
	for field, value := range map[string]string{
		"full_name": c.FullName,
		"email":     c.Email,
		"phone":     c.Phone,
		"address":   c.Address,
		"city":      c.City,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer contact fields are required").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

// LineInput is one requested purchase line.
type LineInput struct {
	ProductID uuid.UUID
	SizeID    *uuid.UUID
	Quantity  int
}

// CreateOrderInput is the unified entry point payload; a buy-now purchase is
// simply a one-line input.
type CreateOrderInput struct {
	Customer      CustomerInfo
	Lines         []LineInput
	PaymentMethod enums.PaymentMethod
	Notes         string
}

// CheckoutInput converts the customer's active cart into an order.
type CheckoutInput struct {
	Customer      CustomerInfo
	PaymentMethod enums.PaymentMethod
	Notes         string
}

// ListInput filters and pages the order listing.
type ListInput struct {
	CustomerID *uuid.UUID
	Status     *enums.OrderStatus
	Pagination pagination.Params
}

// Page is one page of orders with the cursor for the next.
type Page struct {
	Orders     []models.Order
	NextCursor string
	HasMore    bool
}
