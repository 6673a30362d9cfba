package cart

import (
	"github.com/fashionhub/storefront-backend/pkg/db/models"
	"github.com/fashionhub/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineView is one cart line priced against the live catalog.
type LineView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SizeID      *uuid.UUID      `json:"size_id,omitempty"`
	SizeName    string          `json:"size_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Available   int             `json:"available"`
}

// View is the cart as presented to the customer. Totals are recomputed from
// current catalog prices on every read; nothing here is a snapshot.
type View struct {
	CartID   uuid.UUID        `json:"cart_id"`
	Status   enums.CartStatus `json:"status"`
	Lines    []LineView       `json:"lines"`
	Total    decimal.Decimal  `json:"total"`
	Warnings []string         `json:"warnings,omitempty"`
}

func emptyView(record *models.CartRecord) *View {
	return &View{
		CartID: record.ID,
		Status: record.Status,
		Lines:  []LineView{},
		Total:  decimal.Zero,
	}
}
