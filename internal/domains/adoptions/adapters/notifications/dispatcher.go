package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

var (
	// ErrQueueFull is returned when the dispatcher buffer is saturated.
	ErrQueueFull = errors.New("notification queue full")
	// ErrDispatcherClosed is returned after Close.
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

var _ ports.Notifier = (*Dispatcher)(nil)

// Dispatcher hands notifications to a bounded queue drained by background workers.
type Dispatcher struct {
	next    ports.Notifier
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan ports.Notification
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger overrides the logger used for delivery failures.
func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDeliveryTimeout bounds a single delivery attempt.
func WithDeliveryTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher starts workers goroutines that forward to next.
func NewDispatcher(next ports.Notifier, size, workers int, opts ...DispatcherOption) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		next:    next,
		logger:  slog.Default(),
		timeout: 10 * time.Second,
		queue:   make(chan ports.Notification, size),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.wg.Add(workers)
	for range workers {
		go d.work()
	}
	return d
}

// Notify enqueues without blocking.
func (d *Dispatcher) Notify(_ context.Context, n ports.Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits for queued ones to drain or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.next.Notify(ctx, n); err != nil {
			d.logger.LogAttrs(ctx, slog.LevelWarn, "adoption notification delivery failed",
				slog.String("request.id", n.RequestID),
				slog.String("status", n.Status),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}
