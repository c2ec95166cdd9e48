package usecase

import "time"

// OrderPlacedMsg is written to the outbox when an order commits and
// published to RabbitMQ by the drainer.
type OrderPlacedMsg struct {
	EventID    string    `json:"eventId"`
	OrderID    int64     `json:"orderId"`
	CustomerID int64     `json:"customerId"`
	GrandTotal string    `json:"grandTotal"`
	PlacedAt   time.Time `json:"placedAt"`
}

// StockReceivedMsg arrives from the warehouse on Kafka; it is applied
// through the restock use case.
type StockReceivedMsg struct {
	ISBN string `json:"isbn"`
	Qty  int    `json:"qty"`
}
