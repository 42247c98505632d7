package repository

import (
	"context"
	"testing"
	"time"

	"skinker-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *model.Order {
	return &model.Order{
		ID:            uuid.New(),
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "3001234567",
		TotalAmount:   decimal.NewFromInt(90000),
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string, orderID uuid.UUID) int {
	t.Helper()

	column := "order_id"
	if table == "orders" {
		column = "id"
	}

	var count int
	err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM "+table+" WHERE "+column+" = $1", orderID,
	).Scan(&count)
	require.NoError(t, err)

	return count
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestOrderRepository_CreateOrderWithItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	order.TotalAmount = decimal.NewFromInt(215000)
	items := []model.OrderItem{
		{OrderID: order.ID, ProductID: "3", Quantity: 1, Price: decimal.NewFromInt(85000)},
		{OrderID: order.ID, ProductID: "1", Quantity: 2, Price: decimal.NewFromInt(45000)},
		{OrderID: order.ID, ProductID: "7", Quantity: 1, Price: decimal.NewFromInt(40000)},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, 1, countRows(t, pool, "orders", order.ID))
	assert.Equal(t, 3, countRows(t, pool, "order_items", order.ID))

	got, gotItems, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.CustomerName, got.CustomerName)
	assert.Equal(t, order.CustomerEmail, got.CustomerEmail)
	assert.Equal(t, order.CustomerPhone, got.CustomerPhone)
	assert.True(t, order.TotalAmount.Equal(got.TotalAmount))
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

	require.Len(t, gotItems, 3)
	for i, item := range gotItems {
		assert.Equal(t, items[i].ProductID, item.ProductID)
		assert.Equal(t, items[i].Quantity, item.Quantity)
		assert.True(t, items[i].Price.Equal(item.Price))
	}
}

func TestOrderRepository_FailingItemRollsBackOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	items := []model.OrderItem{
		{OrderID: order.ID, ProductID: "1", Quantity: 2, Price: decimal.NewFromInt(45000)},
		{OrderID: order.ID, ProductID: "2", Quantity: 0, Price: decimal.NewFromInt(65000)},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	err = repo.CreateOrderItems(ctx, tx, items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order item 1")
	require.NoError(t, tx.Rollback(ctx))

	assert.Equal(t, 0, countRows(t, pool, "orders", order.ID))
	assert.Equal(t, 0, countRows(t, pool, "order_items", order.ID))
}

func TestOrderRepository_CreateOrderItems_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	assert.NoError(t, repo.CreateOrderItems(ctx, tx, nil))
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())

	order, items, err := repo.GetByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Nil(t, items)
}

func TestOrderRepository_GetByID_KeepsCartOrderAfterUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newTestOrder()
	items := []model.OrderItem{
		{OrderID: order.ID, ProductID: "5", Quantity: 1, Price: decimal.NewFromInt(55000)},
		{OrderID: order.ID, ProductID: "2", Quantity: 3, Price: decimal.NewFromInt(22000)},
		{OrderID: order.ID, ProductID: "8", Quantity: 1, Price: decimal.NewFromInt(20000)},
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	var positions []int
	rows, err := pool.Query(ctx, "SELECT position FROM order_items WHERE order_id = $1 ORDER BY product_id", order.ID)
	require.NoError(t, err)
	for rows.Next() {
		var p int
		require.NoError(t, rows.Scan(&p))
		positions = append(positions, p)
	}
	require.NoError(t, rows.Err())
	// product ids 2, 5, 8 were cart lines 1, 0, 2.
	assert.Equal(t, []int{1, 0, 2}, positions)

	// An update writes a new row version at the end of the heap.
	_, err = pool.Exec(ctx, "UPDATE order_items SET price = price WHERE order_id = $1 AND position = 0", order.ID)
	require.NoError(t, err)

	_, gotItems, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, gotItems, 3)
	for i, item := range gotItems {
		assert.Equal(t, items[i].ProductID, item.ProductID)
	}
}
