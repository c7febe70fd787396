// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// OrderPlacedEvent is published when an order is successfully created. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type OrderPlacedEvent struct {
	OrderID    uint64  `json:"order_id"`
	CustomerID uint64  `json:"customer_id"`
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	PlacedAt   string  `json:"placed_at"`
}
