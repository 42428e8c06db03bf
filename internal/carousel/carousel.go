// Package carousel implements the auto-advancing cursor behind the panel and
// participant carousels.
//
// An Engine owns an index into a fixed, non-empty sequence. A single timer
// advances it every period while it is started; Next, Prev and JumpTo move it
// on user action without touching the timer, so a manual step and an automatic
// one may land close together.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrEmpty           = errors.New("carousel: empty sequence")
	ErrInvalidPeriod   = errors.New("carousel: period must be positive")
	ErrIndexOutOfRange = errors.New("carousel: index out of range")
	ErrRunning         = errors.New("carousel: already running")
)

type Cause string

const (
	CauseTick Cause = "tick"
	CauseNext Cause = "next"
	CausePrev Cause = "prev"
	CauseJump Cause = "jump"
)

// Ticker is the repeating timer source. *time.Ticker satisfies it through
// NewTimeTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Option[T any] func(*Engine[T])

// WithOnChange registers the transition observer. It runs after every
// transition while the engine lock is held and must not call back into the
// engine.
func WithOnChange[T any](fn func(index int, item T, cause Cause)) Option[T] {
	return func(e *Engine[T]) { e.onChange = fn }
}

func WithTicker[T any](fn func(time.Duration) Ticker) Option[T] {
	return func(e *Engine[T]) { e.newTicker = fn }
}

type Engine[T any] struct {
	mu       sync.Mutex
	items    []T
	index    int
	period   time.Duration
	onChange func(index int, item T, cause Cause)

	newTicker func(time.Duration) Ticker
	cancel    context.CancelFunc
	done      chan struct{}
}

func New[T any](items []T, period time.Duration, opts ...Option[T]) (*Engine[T], error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}

	e := &Engine[T]{
		items:     append([]T(nil), items...),
		period:    period,
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine[T]) Len() int { return len(e.items) }

func (e *Engine[T]) Period() time.Duration { return e.period }

func (e *Engine[T]) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

func (e *Engine[T]) Current() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.items[e.index]
}

func (e *Engine[T]) Tick() int { return e.step(1, CauseTick) }

func (e *Engine[T]) Next() int { return e.step(1, CauseNext) }

func (e *Engine[T]) Prev() int { return e.step(-1, CausePrev) }

func (e *Engine[T]) JumpTo(i int) error {
	n := len(e.items)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, n)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = i
	e.notify(CauseJump)
	return nil
}

func (e *Engine[T]) step(delta int, cause Cause) int {
	n := len(e.items)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.index = ((e.index+delta)%n + n) % n
	e.notify(cause)
	return e.index
}

func (e *Engine[T]) notify(cause Cause) {
	if e.onChange != nil {
		e.onChange(e.index, e.items[e.index], cause)
	}
}

// Start launches the single auto-advance timer. It stops when ctx is done or
// Stop is called.
func (e *Engine[T]) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.done != nil {
		select {
		case <-e.done:
		default:
			e.mu.Unlock()
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	t := e.newTicker(e.period)
	done := make(chan struct{})
	e.cancel, e.done = cancel, done
	e.mu.Unlock()

	go func() {
		defer close(done)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C():
				e.Tick()
			}
		}
	}()
	return nil
}

// Stop cancels the timer and waits for it to exit. Safe to call many times.
func (e *Engine[T]) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (e *Engine[T]) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done == nil {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}
