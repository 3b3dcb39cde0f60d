package models

// OrderStatus is the order lifecycle state. Orders are created PENDING by
// checkout and only leave PENDING through the webhook reconciler or an
// admin fulfillment update.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderShipped: true, OrderDelivered: true, OrderCancelled: true},
	OrderShipped:    {OrderDelivered: true},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
// No transition executes without this guard; it is what makes redelivered
// webhook events safe.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}
