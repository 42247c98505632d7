package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"skinker-shop/internal/config"
	"skinker-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
)

// OrderCreated is the payload published for every committed order.
type OrderCreated struct {
	OrderID      string          `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends order events to a topic exchange.
type Publisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

// Dial connects to the broker and declares the configured exchange.
func Dial(cfg config.EventsConfig, logger zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newPublisher(ch, cfg, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, cfg config.EventsConfig, logger zerolog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Exchange, err)
	}

	logger = logger.With().Str("component", "events").Logger()
	logger.Info().
		Str("exchange", cfg.Exchange).
		Str("routing_key", cfg.RoutingKey).
		Msg("order event publisher ready")

	return &Publisher{
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// PublishOrderCreated publishes an OrderCreated event for order.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order model.Order, itemCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(OrderCreated{
		OrderID:      order.ID.String(),
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		ItemCount:    itemCount,
		CreatedAt:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    order.ID.String(),
		Timestamp:    order.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("order_id", order.ID.String()).Msg("order event published")

	return nil
}

// Close closes the channel and connection for graceful shutdown.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}
