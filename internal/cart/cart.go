// Package cart holds the shopper's in-memory cart.
package cart

import (
	"sync"

	"skinker-shop/internal/model"

	"github.com/shopspring/decimal"
)

// Item is one cart line. Each product appears at most once.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
}

// Subtotal returns price * quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered collection of items. The zero value is an empty cart
// ready to use.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of product in the cart.
func (c *Cart) Add(product model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}

	c.items = append(c.items, Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
		ImageURL:  product.ImageURL,
	})
}

// Remove deletes the product from the cart. Unknown IDs are ignored.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(productID)
}

// SetQuantity replaces the quantity of a product already in the cart. A
// quantity of zero or less removes it.
func (c *Cart) SetQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(productID)
		return
	}

	if i := c.indexOf(productID); i >= 0 {
		c.items[i].Quantity = quantity
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
}

// Total returns the sum of every line subtotal.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct products.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}
