package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/telemart/storefront/internal/adapter/telegram"
	"github.com/telemart/storefront/internal/domain/model"
)

// Dispatcher drains a bounded queue of notification intents and delivers
// them through the telegram client concurrently. Dispatch never blocks the
// request path: when the queue is full the notification is dropped and
// logged.
type Dispatcher struct {
	client      telegram.Client
	sendTimeout time.Duration
	workers     int
	logger      *slog.Logger

	queue  chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(client telegram.Client, sendTimeout time.Duration, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		client:      client,
		sendTimeout: sendTimeout,
		workers:     workers,
		logger:      logger,
		queue:       make(chan model.Notification, queueSize),
	}
}

// Start launches background delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for all workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Dispatch enqueues the notification without blocking.
func (d *Dispatcher) Dispatch(n model.Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping",
			slog.Int64("chat_id", n.ChatID),
		)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	err := d.client.Send(sendCtx, n)
	if err == nil {
		return
	}
	if errors.Is(err, telegram.ErrNotConfigured) {
		d.logger.Debug("telegram not configured, notification skipped",
			slog.Int64("chat_id", n.ChatID),
		)
		return
	}
	d.logger.Error("notification delivery failed",
		slog.Int64("chat_id", n.ChatID),
		slog.String("error", err.Error()),
	)
}
