package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is immutable once created. Items snapshot the catalog at checkout
// time, so later price changes never alter a recorded order.
type Order struct {
	ID        string          `json:"id"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderItem struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int64             `json:"quantity"`
	LineTotal decimal.Decimal   `json:"line_total"`
	Attrs     map[string]string `json:"attrs"`
}

type CreateOrderRequest struct {
	SessionID string
	Currency  string
	Items     []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
	Attrs     map[string]string
}
