package service

import (
	"context"

	"skinker-shop/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// List retrieves the catalogue, optionally restricted to one category.
	List(ctx context.Context, category string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder validates and persists an order with its items in one
	// transaction, then hands it to the notifier.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// Notifier receives committed orders. Implementations must not block.
type Notifier interface {
	Notify(order model.Order, items []model.OrderItemRequest)
}
