package event

import (
	"context"
	"errors"
	"sync"

	"github.com/thomasXwang/covid-visualizer/internal/covid/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus is an in-process queue of refresh requests. The event channel is never
// closed; consumers watch Done instead, so a publisher blocked on a full
// buffer is released by Close.
type Bus struct {
	events    chan entity.RefreshEvent
	done      chan struct{}
	closeOnce sync.Once
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		events: make(chan entity.RefreshEvent, buffer),
		done:   make(chan struct{}),
	}
}

// Publish enqueues event, blocking while the buffer is full until ctx ends or
// the bus is closed.
func (b *Bus) Publish(ctx context.Context, event entity.RefreshEvent) error {
	select {
	case <-b.done:
		return ErrBusClosed
	default:
	}

	select {
	case b.events <- event:
		return nil
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is the receive side of the queue.
func (b *Bus) Events() <-chan entity.RefreshEvent {
	return b.events
}

// Done is closed by Close.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
