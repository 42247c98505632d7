package repository

import (
	"context"

	"skinker-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	// Category matches case-insensitively. Empty means every category.
	Category string
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products ordered by category then name.
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Upsert inserts products or refreshes the ones that already exist.
	Upsert(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order items, in slice order, within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}
