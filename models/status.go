package models

// OrderStatus is the fulfillment stage of an order, distinct from its
// payment status.
type OrderStatus string

const (
	OrderPlaced         OrderStatus = "placed"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out-for-delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s is one of the enumerated fulfillment stages.
// Arbitrary strings coming from status-update requests are rejected here.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanCancel reports whether an order in stage s may still be cancelled.
// Delivered and already-cancelled orders are terminal for cancellation, so a
// repeated cancel request surfaces as a conflict rather than a second
// transition.
func (s OrderStatus) CanCancel() bool {
	return s != OrderDelivered && s != OrderCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}
