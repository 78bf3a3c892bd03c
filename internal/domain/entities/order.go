package entities

import "time"

// OrderStatus represents the fulfilment state of an item order.
type OrderStatus int

const (
	OrderStatusStarted   OrderStatus = 0
	OrderStatusConfirmed OrderStatus = 1
	OrderStatusShipped   OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusStarted:
		return "started"
	case OrderStatusConfirmed:
		return "confirmed"
	case OrderStatusShipped:
		return "shipped"
	case OrderStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Active reports whether the order still consumes a unit of its SKU.
// Cancelled orders free the unit immediately.
func (s OrderStatus) Active() bool { return s != OrderStatusCancelled }

// Order is the one-to-one purchase record of an item session. Shipping fields
// are filled incrementally as the state machine walks the customer through
// size, name and address.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI: session_id-index, sku_id-index
type Order struct {
	ID              string      `json:"id"`
	CustomerPhone   string      `json:"customer_phone"`
	SessionID       string      `json:"session_id"`
	SkuID           string      `json:"sku_id"`
	Date            time.Time   `json:"date"`
	Status          OrderStatus `json:"status"`
	ShippingName    string      `json:"shipping_name,omitempty"`
	ShippingAddress string      `json:"shipping_address,omitempty"`

	ConversionRateMobToCurrency float64 `json:"conversion_rate_mob_to_currency"`
}
