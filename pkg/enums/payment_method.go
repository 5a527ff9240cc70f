package enums

import "strings"

// PaymentMethod is the stored settlement channel of a payment.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodOnline PaymentMethod = "Online"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodOnline,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// InitialStatus is the payment status recorded at checkout. Online payments
// are treated as captured since no gateway is involved.
func (p PaymentMethod) InitialStatus() PaymentStatus {
	if p == PaymentMethodCash {
		return PaymentStatusPending
	}
	return PaymentStatusCompleted
}

// PaymentMethodFromInput maps a checkout choice to a PaymentMethod. "cash"
// selects Cash and every other choice is treated as Online.
func PaymentMethodFromInput(value string) PaymentMethod {
	if strings.EqualFold(strings.TrimSpace(value), "cash") {
		return PaymentMethodCash
	}
	return PaymentMethodOnline
}
