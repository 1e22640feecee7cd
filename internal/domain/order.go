package domain

import "time"

const (
	OrderStatusCompleted = "completed"

	DefaultPaymentMethod = "card"
)

// Order is an immutable purchase record created only by checkout. The total
// is captured at creation time and never recomputed.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	TotalCents    int64       `json:"totalCents"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Lines         []OrderLine `json:"lines,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// OrderLine captures a product, the purchased quantity, and the unit price at
// the time of purchase. Later price changes never alter historical orders.
type OrderLine struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	CreatedAt      time.Time `json:"createdAt"`
}
