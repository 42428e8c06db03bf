// Package detail composes the panel detail page: a participant carousel, the
// panel's canonical URL, two QR renderings of it and the zoom modal state.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cwrk-planet/epanel/internal/carousel"
	"github.com/cwrk-planet/epanel/internal/domain"
	"github.com/cwrk-planet/epanel/internal/qr"
)

const DefaultParticipantPeriod = 3 * time.Second

var ErrClosed = errors.New("detail: view closed")

type Size string

const (
	SizeInline Size = "inline"
	SizeZoom   Size = "zoom"
)

type EventKind string

const (
	EventParticipant EventKind = "participant"
	EventQRReady     EventKind = "qr_ready"
	EventZoom        EventKind = "zoom"
)

type Event struct {
	Kind EventKind

	// EventParticipant
	Index  int
	Person domain.Person
	Cause  carousel.Cause

	// EventQRReady
	Size Size
	PNG  []byte

	// EventZoom
	Open bool
}

type Option func(*View)

func WithLogger(l *slog.Logger) Option { return func(v *View) { v.log = l } }

func WithObserver(fn func(Event)) Option { return func(v *View) { v.observe = fn } }

func WithPeriod(d time.Duration) Option { return func(v *View) { v.period = d } }

func WithColors(fg, bg string) Option {
	return func(v *View) { v.fg, v.bg = fg, bg }
}

func WithTicker(fn func(time.Duration) carousel.Ticker) Option {
	return func(v *View) { v.newTicker = fn }
}

// qr target: one per canvas. gen is bumped by every encode request and
// every invalidation, so a late result only lands if nothing newer happened.
type target struct {
	gen uint64
	png []byte
}

type View struct {
	panel domain.Panel
	url   string
	enc   qr.Encoder
	log   *slog.Logger

	period    time.Duration
	fg, bg    string
	newTicker func(time.Duration) carousel.Ticker
	observe   func(Event)

	participants *carousel.Engine[domain.Person]

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	closed   bool
	zoomOpen bool
	targets  map[Size]*target
	wg       sync.WaitGroup
}

func NewView(panel domain.Panel, origin string, enc qr.Encoder, opts ...Option) (*View, error) {
	if err := panel.Validate(); err != nil {
		return nil, err
	}

	v := &View{
		panel:   panel.Clone(),
		url:     DetailURL(origin, panel.ID),
		enc:     enc,
		log:     slog.Default(),
		period:  DefaultParticipantPeriod,
		fg:      qr.DefaultForeground,
		bg:      qr.DefaultBackground,
		targets: map[Size]*target{SizeInline: {}, SizeZoom: {}},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With(slog.Int("panel_id", panel.ID))
	v.ctx, v.cancel = context.WithCancel(context.Background())

	copts := []carousel.Option[domain.Person]{
		carousel.WithOnChange(func(i int, p domain.Person, c carousel.Cause) {
			v.emit(Event{Kind: EventParticipant, Index: i, Person: p, Cause: c})
		}),
	}
	if v.newTicker != nil {
		copts = append(copts, carousel.WithTicker[domain.Person](v.newTicker))
	}
	eng, err := carousel.New(panel.Participants(), v.period, copts...)
	if err != nil {
		return nil, err
	}
	v.participants = eng
	return v, nil
}

func (v *View) Panel() domain.Panel { return v.panel.Clone() }

func (v *View) URL() string { return v.url }

func (v *View) Participants() *carousel.Engine[domain.Person] { return v.participants }

// Start begins auto-advancing the participants and renders the inline QR.
func (v *View) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	// живой таймер не трогаем: повторный Start не должен его остановить
	if v.participants.Running() {
		v.mu.Unlock()
		return carousel.ErrRunning
	}
	v.cancel()
	v.ctx, v.cancel = context.WithCancel(ctx)
	err := v.participants.Start(v.ctx)
	v.mu.Unlock()

	if err != nil {
		return err
	}
	v.encode(SizeInline)
	return nil
}

// Close stops the timer and waits for in-flight encodes. Idempotent.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.cancel()
	v.mu.Unlock()

	v.participants.Stop()
	v.wg.Wait()
}

func (v *View) ZoomOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoomOpen
}

// OpenZoom shows the modal and lazily renders the large QR. Opening an
// already open modal does nothing.
func (v *View) OpenZoom() bool {
	v.mu.Lock()
	if v.closed || v.zoomOpen {
		v.mu.Unlock()
		return false
	}
	v.zoomOpen = true
	v.mu.Unlock()

	v.emit(Event{Kind: EventZoom, Open: true})
	v.encode(SizeZoom)
	return true
}

// CloseZoom hides the modal and drops its canvas, including any render still
// in flight.
func (v *View) CloseZoom() bool {
	v.mu.Lock()
	if !v.zoomOpen {
		v.mu.Unlock()
		return false
	}
	v.zoomOpen = false
	t := v.targets[SizeZoom]
	t.gen++
	t.png = nil
	v.mu.Unlock()

	v.emit(Event{Kind: EventZoom, Open: false})
	return true
}

func (v *View) ToggleZoom() {
	if !v.OpenZoom() {
		v.CloseZoom()
	}
}

func (v *View) InlineQR() []byte { return v.qr(SizeInline) }

func (v *View) ZoomQR() []byte { return v.qr(SizeZoom) }

func (v *View) qr(size Size) []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.targets[size].png
}

func (v *View) options(size Size) qr.Options {
	if size == SizeZoom {
		return qr.Zoom(v.fg, v.bg)
	}
	return qr.Inline(v.fg, v.bg)
}

func (v *View) encode(size Size) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	t := v.targets[size]
	t.gen++
	gen, id, ctx := t.gen, v.panel.ID, v.ctx
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()

		png, err := v.enc.Encode(ctx, v.url, v.options(size))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				v.log.Debug("qr encode cancelled", slog.String("size", string(size)))
				return
			}
			v.log.Error("qr encode failed", slog.String("size", string(size)), slog.Any("err", err))
			return
		}

		v.mu.Lock()
		if v.closed || t.gen != gen || v.panel.ID != id {
			v.mu.Unlock()
			v.log.Debug("stale qr result dropped", slog.String("size", string(size)))
			return
		}
		t.png = png
		v.mu.Unlock()

		v.emit(Event{Kind: EventQRReady, Size: size, PNG: png})
	}()
}

func (v *View) emit(e Event) {
	if v.observe != nil {
		v.observe(e)
	}
}
