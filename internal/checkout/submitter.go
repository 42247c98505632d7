// Package checkout turns the shopper's cart into a submitted order.
package checkout

import (
	"context"
	"errors"
	"strings"

	"skinker-shop/internal/cart"
	"skinker-shop/internal/model"

	"github.com/rs/zerolog"
)

// ErrEmptyCart is returned when submitting a cart with no items.
var ErrEmptyCart = errors.New("cart is empty")

// Options tune checkout behaviour.
type Options struct {
	// RequireEmail makes the customer email mandatory.
	RequireEmail bool
	// ShopPhone receives the WhatsApp confirmation message.
	ShopPhone string
}

// Confirmation is shown to the shopper after a successful submission.
type Confirmation struct {
	OrderID     string
	Message     string
	Summary     string
	WhatsAppURL string
}

// Submitter validates the contact form and submits the cart.
type Submitter struct {
	cart      *cart.Cart
	transport Transport
	opts      Options
	logger    zerolog.Logger
}

// NewSubmitter creates a submitter for c that sends orders through transport.
func NewSubmitter(c *cart.Cart, transport Transport, opts Options, logger zerolog.Logger) *Submitter {
	return &Submitter{
		cart:      c,
		transport: transport,
		opts:      opts,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

// Validate checks the contact details.
func (s *Submitter) Validate(contact model.Contact) error {
	return contact.Validate(s.opts.RequireEmail)
}

// Submit sends the cart as an order. The cart is cleared only when the
// transport accepts the order, so a failed attempt can be retried as is.
func (s *Submitter) Submit(ctx context.Context, contact model.Contact) (*Confirmation, error) {
	if err := s.Validate(contact); err != nil {
		return nil, err
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	total := s.cart.Total()

	req := &model.OrderRequest{
		CustomerName:  strings.TrimSpace(contact.Name),
		CustomerEmail: strings.TrimSpace(contact.Email),
		CustomerPhone: strings.TrimSpace(contact.Phone),
		TotalAmount:   total,
		Items:         make([]model.OrderItemRequest, len(items)),
	}
	for i, item := range items {
		req.Items[i] = model.OrderItemRequest{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	summary, err := Summary(contact, items, total)
	if err != nil {
		return nil, err
	}

	receipt, err := s.transport.Submit(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Int("items", len(items)).Msg("order submission failed")
		return nil, err
	}

	s.cart.Clear()

	s.logger.Info().
		Str("order_id", receipt.OrderID).
		Str("total_amount", total.String()).
		Msg("order submitted")

	return &Confirmation{
		OrderID:     receipt.OrderID,
		Message:     receipt.Message,
		Summary:     summary,
		WhatsAppURL: WhatsAppLink(s.opts.ShopPhone, summary),
	}, nil
}
