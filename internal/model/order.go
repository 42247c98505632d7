package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a completed checkout request.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	CustomerEmail string          `json:"customer_email" db:"customer_email"`
	CustomerPhone string          `json:"customer_phone" db:"customer_phone"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// Subtotal returns price * quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Items         []OrderItemRequest `json:"items"`
}

// OrderItemRequest represents a single item in an order request. Name is
// carried for notifications only and is not persisted.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal returns price * quantity.
func (i OrderItemRequest) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums price * quantity over the request items.
func (r *OrderRequest) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CreateOrderResponse is returned once an order has been committed.
type CreateOrderResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// OrderResponse represents an order with its line items.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}
