package model

import "time"

// Order status values. The forward path is Pending -> Shipped -> Delivered
// with cancellation possible from Pending or Shipped, but no transition table
// is enforced by the store: an admin update may write any value from this set
// at any time (see policy.TransitionValidator).
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// ValidStatus reports whether s is a member of the permitted status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus reports whether an order in status s is completed, i.e.
// beyond the point where shipping-address edits are allowed.
func TerminalStatus(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ShippingAddress is the required delivery sub-record embedded in an order.
// All fields are required at creation time.
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// OrderItem is one line of an order: a product reference and a quantity of at
// least one. Rows live in the `order_items` table.
type OrderItem struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

// Order mirrors the `orders` table plus its items. CustomerID references the
// owning customer and is immutable after creation.
type Order struct {
	ID              uint64          `json:"id"`
	CustomerID      uint64          `json:"customer_id"`
	Items           []OrderItem     `json:"products"`
	TotalPrice      float64         `json:"total_price"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
