package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.RefreshEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// RefreshConsumer reloads datasets named by refresh events. Each event ID is
// handled at most once; failures are retried with exponential backoff.
type RefreshConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRefreshConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *RefreshConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 2
	}

	maxRetries := max(cfg.MaxRetries, 0)

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 500 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &RefreshConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *RefreshConsumer) Start() {
	for range c.workers {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and cancels in-flight handlers and pending backoffs,
// then waits for the workers until ctx ends. Events still queued are dropped.
func (c *RefreshConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RefreshConsumer) worker() {
	defer c.wg.Done()

	events := c.bus.Events()
	for {
		select {
		case event := <-events:
			c.processEvent(event)
		case <-c.bus.Done():
			c.drain(events)
			return
		}
	}
}

func (c *RefreshConsumer) drain(events <-chan entity.RefreshEvent) {
	for {
		select {
		case event := <-events:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *RefreshConsumer) processEvent(event entity.RefreshEvent) {
	if c.handler == nil {
		return
	}

	if c.ctx.Err() != nil {
		slog.Warn("refresh event dropped at shutdown", "event_id", event.EventID, "metric", event.Metric)
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate refresh event", "event_id", event.EventID, "metric", event.Metric)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(c.ctx, event)
		if err == nil {
			slog.Info("dataset refreshed", "event_id", event.EventID, "metric", event.Metric, "attempt", attempt+1)
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to refresh dataset after retries", "event_id", event.EventID, "metric", event.Metric, "error", err)
			return
		}

		slog.Warn("refresh attempt failed", "event_id", event.EventID, "metric", event.Metric, "attempt", attempt+1, "error", err)
		if !c.sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func (c *RefreshConsumer) sleepBackoff(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.ctx.Done():
		return false
	}
}
