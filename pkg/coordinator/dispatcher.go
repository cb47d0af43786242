package coordinator

import (
	"context"
	"errors"

	"orthoslice/internal/models"
)

// ErrStopped is returned by Do once the dispatcher loop has exited
var ErrStopped = errors.New("dispatcher stopped")

type event struct {
	fn     func(*Coordinator) error
	result chan error
}

// Dispatcher owns a Coordinator and runs events against it one at a time,
// each to completion, on the goroutine that called Run.
type Dispatcher struct {
	coordinator *Coordinator
	events      chan event
	done        chan struct{}
}

// NewDispatcher wraps c. The caller must not use c directly afterwards.
func NewDispatcher(c *Coordinator) *Dispatcher {
	return &Dispatcher{
		coordinator: c,
		events:      make(chan event),
		done:        make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-d.events:
			ev.result <- ev.fn(d.coordinator)
		}
	}
}

// Do queues fn and waits for it to finish. If ctx ends after fn was queued,
// fn still runs but its result is discarded.
func (d *Dispatcher) Do(ctx context.Context, fn func(*Coordinator) error) error {
	ev := event{fn: fn, result: make(chan error, 1)}

	select {
	case d.events <- ev:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.done:
		return ErrStopped
	}

	select {
	case err := <-ev.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Motion forwards a motion event
func (d *Dispatcher) Motion(ctx context.Context, view models.Orientation, x, y int) error {
	return d.Do(ctx, func(c *Coordinator) error {
		w, h := c.SliceSize(view)
		return c.HandleMotion(view, x, y, w, h)
	})
}

// WindowLevel forwards a window/level change
func (d *Dispatcher) WindowLevel(ctx context.Context, window, level float64) error {
	return d.Do(ctx, func(c *Coordinator) error {
		return c.HandleWindowLevelChange(window, level)
	})
}

// Snapshot returns the coordinator state as seen between events
func (d *Dispatcher) Snapshot(ctx context.Context) (State, error) {
	var s State
	err := d.Do(ctx, func(c *Coordinator) error {
		s = c.State()
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return s, nil
}
