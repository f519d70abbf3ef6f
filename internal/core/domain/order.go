package domain

import "time"

// OrderStatus represents the lifecycle state of an order. Orders are created
// pending and no transitions are exposed.
type OrderStatus string

const StatusPending OrderStatus = "pending"

// LineItem is a single product entry of an order.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price,omitempty"`
}

// Order is placed by an authenticated purchaser.
type Order struct {
	ID        string      `json:"id"`
	Purchaser string      `json:"purchaser"`
	Items     []LineItem  `json:"items"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
