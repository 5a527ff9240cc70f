package enums

import "fmt"

// Action discriminates the requests accepted by the action endpoint.
type Action string

const (
	ActionAddToCart          Action = "add_to_cart"
	ActionUpdateCartQuantity Action = "update_cart_quantity"
	ActionRemoveFromCart     Action = "remove_from_cart"
	ActionPlaceOrder         Action = "place_order"
	ActionGetOrdersByStatus  Action = "get_orders_by_status"
	ActionGetOrderCounts     Action = "get_order_counts"
	ActionGetOrderDetails    Action = "get_order_details"
	ActionCancelOrder        Action = "cancel_order"
	ActionSubmitReview       Action = "submit_review"
	ActionToggleFavorite     Action = "toggle_favorite"
)

var validActions = []Action{
	ActionAddToCart,
	ActionUpdateCartQuantity,
	ActionRemoveFromCart,
	ActionPlaceOrder,
	ActionGetOrdersByStatus,
	ActionGetOrderCounts,
	ActionGetOrderDetails,
	ActionCancelOrder,
	ActionSubmitReview,
	ActionToggleFavorite,
}

// Actions returns every known action.
func Actions() []Action {
	out := make([]Action, len(validActions))
	copy(out, validActions)
	return out
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}

// IsValid reports whether the value is a known Action.
func (a Action) IsValid() bool {
	for _, candidate := range validActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// Mutates reports whether the action writes state. Mutating actions are
// subject to idempotency keys.
func (a Action) Mutates() bool {
	switch a {
	case ActionGetOrdersByStatus, ActionGetOrderCounts, ActionGetOrderDetails:
		return false
	default:
		return a.IsValid()
	}
}

// ParseAction converts raw input into an Action.
func ParseAction(value string) (Action, error) {
	for _, candidate := range validActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action %q", value)
}
