package orders

import (
	"github.com/fashionhub/storefront-backend/pkg/enums"
)

// TransitionTable is the single owner of the allowed-next-status sets. Every
// entry point that changes order status consults the same table; no call
// site carries its own copy of the rules.
type TransitionTable map[enums.OrderStatus][]enums.OrderStatus

// DefaultTransitions is the fulfilment pipeline the storefront ships with.
// Payment-confirmed orders may skip the confirmed step and move straight to
// processing.
func DefaultTransitions() TransitionTable {
	return TransitionTable{
		enums.OrderStatusPending: {
			enums.OrderStatusConfirmed,
			enums.OrderStatusProcessing,
			enums.OrderStatusCancelled,
		},
		enums.OrderStatusConfirmed: {
			enums.OrderStatusProcessing,
			enums.OrderStatusCancelled,
		},
		enums.OrderStatusProcessing: {
			enums.OrderStatusPacked,
			enums.OrderStatusCancelled,
		},
		enums.OrderStatusPacked: {
			enums.OrderStatusShipped,
			enums.OrderStatusCancelled,
		},
		enums.OrderStatusShipped: {
			enums.OrderStatusDelivered,
			enums.OrderStatusCancelled,
		},
		enums.OrderStatusDelivered: {},
		enums.OrderStatusCancelled: {},
	}
}

// Allows reports whether the table permits moving from current to next.
func (t TransitionTable) Allows(current, next enums.OrderStatus) bool {
	for _, candidate := range t[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Next returns the allowed next statuses out of current.
func (t TransitionTable) Next(current enums.OrderStatus) []enums.OrderStatus {
	return t[current]
}
