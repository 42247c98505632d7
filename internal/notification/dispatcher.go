package notification

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"runtime/debug"
	"sync"
	"time"

	"skinker-shop/internal/config"
	"skinker-shop/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrDisabled is returned by SendTest when no mail API key is configured.
var ErrDisabled = errors.New("notifications disabled")

// jobTimeout bounds the sends of a single order.
const jobTimeout = 30 * time.Second

// EventPublisher announces committed orders to other systems.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order model.Order, itemCount int) error
}

type job struct {
	order model.Order
	items []model.OrderItemRequest
}

// Dispatcher sends order notifications on background workers so the
// request that created the order never waits for them.
type Dispatcher struct {
	mailer    Mailer
	publisher EventPublisher
	cfg       config.MailConfig
	logger    zerolog.Logger

	jobs      chan job
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
}

// NewDispatcher creates a dispatcher. publisher may be nil. Without a mail
// API key the dispatcher is disabled and Notify does nothing.
func NewDispatcher(mailer Mailer, publisher EventPublisher, cfg config.MailConfig, logger zerolog.Logger) *Dispatcher {
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}

	return &Dispatcher{
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With().Str("component", "dispatcher").Logger(),
		jobs:      make(chan job, queueSize),
	}
}

// Enabled reports whether notifications are sent.
func (d *Dispatcher) Enabled() bool {
	return d.mailer != nil && d.cfg.Enabled()
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		if !d.Enabled() {
			d.logger.Warn().Msg("RESEND_API_KEY not set, order notifications are disabled")
			return
		}

		workers := d.cfg.Workers
		if workers < 1 {
			workers = 1
		}

		for i := 0; i < workers; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}

		d.logger.Info().
			Int("workers", workers).
			Int("queue_size", cap(d.jobs)).
			Bool("events", d.publisher != nil).
			Msg("notification dispatcher started")
	})
}

// Notify queues the notifications for a committed order. It never blocks:
// when the queue is full the job is dropped.
func (d *Dispatcher) Notify(order model.Order, items []model.OrderItemRequest) {
	if !d.Enabled() {
		d.logger.Debug().Str("order_id", order.ID.String()).Msg("notifications disabled, skipping")
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().Str("order_id", order.ID.String()).Msg("dispatcher stopped, notification dropped")
		return
	}

	select {
	case d.jobs <- job{order: order, items: items}:
	default:
		d.logger.Warn().
			Str("order_id", order.ID.String()).
			Int("queue_size", cap(d.jobs)).
			Msg("notification queue full, notification dropped")
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info().Msg("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn().Int("pending", len(d.jobs)).Msg("notification drain interrupted")
		return ctx.Err()
	}
}

// SendTest sends a connectivity test email to the admin address.
func (d *Dispatcher) SendTest(ctx context.Context) (string, error) {
	if !d.Enabled() {
		return "", ErrDisabled
	}

	id, err := d.mailer.Send(ctx, Email{
		From:    d.cfg.From,
		To:      []string{d.cfg.AdminEmail},
		Subject: testEmailSubject,
		HTML:    testEmailHTML,
	})
	if err != nil {
		d.logger.Error().Err(err).Msg("test email failed")
		return "", &model.NotificationError{Channel: "test", Err: err}
	}

	d.logger.Info().Str("email_id", id).Msg("test email sent")

	return id, nil
}

func (d *Dispatcher) worker(n int) {
	defer d.wg.Done()

	for j := range d.jobs {
		d.process(j)
	}

	d.logger.Debug().Int("worker", n).Msg("notification worker exited")
}

// process runs every channel of one job concurrently. A failing channel does
// not cancel the others.
func (d *Dispatcher) process(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger := d.logger.With().Str("order_id", j.order.ID.String()).Logger()
	data := orderData{Order: j.order, Items: j.items}

	var g errgroup.Group

	g.Go(guard(logger, "admin", func() error {
		return d.send(ctx, logger, "admin", adminTemplate, data, d.cfg.AdminEmail, adminSubject(j.order.CustomerName))
	}))

	if j.order.CustomerEmail != "" {
		g.Go(guard(logger, "customer", func() error {
			return d.send(ctx, logger, "customer", customerTemplate, data, j.order.CustomerEmail, customerSubject)
		}))
	}

	if d.publisher != nil {
		g.Go(guard(logger, "event", func() error {
			if err := d.publisher.PublishOrderCreated(ctx, j.order, len(j.items)); err != nil {
				nErr := &model.NotificationError{Channel: "event", Err: err}
				logger.Error().Err(nErr).Msg("order event failed")
				return nErr
			}
			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		logger.Warn().Msg("order notifications finished with errors")
		return
	}

	logger.Info().Msg("order notifications sent")
}

// guard recovers a panic in fn and returns it as a logged NotificationError.
func guard(logger zerolog.Logger, channel string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = &model.NotificationError{Channel: channel, Err: fmt.Errorf("panic: %v", rec)}
				logger.Error().
					Err(err).
					Str("channel", channel).
					Bytes("stack", debug.Stack()).
					Msg("notification panicked")
			}
		}()
		return fn()
	}
}

func (d *Dispatcher) send(ctx context.Context, logger zerolog.Logger, channel string, tmpl *template.Template, data orderData, to, subject string) error {
	html, err := render(tmpl, data)
	if err != nil {
		nErr := &model.NotificationError{Channel: channel, Err: err}
		logger.Error().Err(nErr).Msg("email rendering failed")
		return nErr
	}

	id, err := d.mailer.Send(ctx, Email{
		From:    d.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		nErr := &model.NotificationError{Channel: channel, Err: err}
		logger.Error().Err(nErr).Str("channel", channel).Msg("email failed")
		return nErr
	}

	logger.Debug().Str("channel", channel).Str("email_id", id).Msg("email sent")

	return nil
}
