package enums

// PaymentStatus is the only mutable attribute of a payment after checkout.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusCancelled PaymentStatus = "Cancelled"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusCancelled,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// PaymentStatusForOrder returns the payment status that follows an order
// entering the given status, and false when the payment is left untouched.
func PaymentStatusForOrder(status OrderStatus) (PaymentStatus, bool) {
	switch status {
	case OrderStatusCancelled:
		return PaymentStatusCancelled, true
	case OrderStatusFailed:
		return PaymentStatusFailed, true
	case OrderStatusRefunded:
		return PaymentStatusRefunded, true
	default:
		return "", false
	}
}
