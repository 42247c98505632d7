package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skinker-shop/internal/config"
	"skinker-shop/internal/model"
	"skinker-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	notifier  Notifier
	cfg       config.OrderConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	notifier Notifier,
	cfg config.OrderConfig,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// CreateOrder persists the order and its items atomically. Notifications
// are handed off only after a successful commit.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.CreateOrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, &model.PersistenceError{Op: "begin transaction", Err: err}
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		ID:            uuid.New(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		TotalAmount:   req.TotalAmount,
		CreatedAt:     s.now().UTC(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, &model.PersistenceError{Op: "create order", Err: err}
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, &model.PersistenceError{Op: "create order items", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, &model.PersistenceError{Op: "commit order", Err: err}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Str("total_amount", order.TotalAmount.String()).
		Msg("order created successfully")

	if s.notifier != nil {
		s.notifier.Notify(*order, req.Items)
	}

	return &model.CreateOrderResponse{
		ID:      order.ID,
		Message: model.MsgOrderCreated,
	}, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{
		Order: *order,
		Items: items,
	}, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewValidationError("", model.MsgInvalidJSON)
	}

	contact := model.Contact{Name: req.CustomerName, Email: req.CustomerEmail, Phone: req.CustomerPhone}
	if err := contact.Validate(false); err != nil {
		s.logger.Warn().Err(err).Msg("invalid customer contact")
		return err
	}

	if len(req.Items) == 0 {
		return model.NewValidationError("items", model.MsgItemsRequired)
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return model.NewValidationError(fmt.Sprintf("items[%d].product_id", i), model.MsgProductIDMissing)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), model.MsgInvalidQuantity)
		}

		if item.Price.IsNegative() {
			return model.NewValidationError(fmt.Sprintf("items[%d].price", i), model.MsgInvalidPrice)
		}
	}

	if req.TotalAmount.IsNegative() {
		return model.NewValidationError("total_amount", model.MsgInvalidTotal)
	}

	if itemsTotal := req.ItemsTotal(); !itemsTotal.Equal(req.TotalAmount) {
		s.logger.Warn().
			Str("total_amount", req.TotalAmount.String()).
			Str("items_total", itemsTotal.String()).
			Bool("rejected", s.cfg.VerifyTotal).
			Msg("order total does not match its items")
		if s.cfg.VerifyTotal {
			return model.NewValidationError("total_amount", model.MsgTotalMismatch)
		}
	}

	return nil
}
