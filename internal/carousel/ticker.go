package carousel

import (
	"sync"
	"time"
)

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func NewTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

// ManualTicker fires only when Fire is called. Tests use it to drive the
// auto-advance deterministically.
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

// Factory returns a ticker constructor that always hands out t.
func (t *ManualTicker) Factory() func(time.Duration) Ticker {
	return func(time.Duration) Ticker { return t }
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

// Fire blocks until the running engine receives the tick.
func (t *ManualTicker) Fire() {
	t.ch <- time.Now()
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
