package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/keymap"
	"github.com/dasdy/calcskin/logging"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
)

// Modifier key names. They never reach the keymap.
const (
	KeyShiftLeft  = "SHIFT_LEFT"
	KeyShiftRight = "SHIFT_RIGHT"
	KeyAltLeft    = "ALT_LEFT"
	KeyAltRight   = "ALT_RIGHT"
	KeyCtrlLeft   = "CTRL_LEFT"
	KeyCtrlRight  = "CTRL_RIGHT"
)

type Option func(*Dispatcher)

func WithMaintainAspect(maintain bool) Option {
	return func(d *Dispatcher) {
		d.maintainAspect = maintain
	}
}

func WithDelays(delays Delays) Option {
	return func(d *Dispatcher) {
		d.delays = delays
	}
}

func WithJournal(journal Journal) Option {
	return func(d *Dispatcher) {
		d.journal = journal
	}
}

// WithMenuHandler sets the callback for a tap on the upper half of the display.
func WithMenuHandler(handler func(skin.MenuArea)) Option {
	return func(d *Dispatcher) {
		d.menuHandler = handler
	}
}

// Dispatcher owns the input state of one calculator view. Input methods and timer
// callbacks are serialised by one lock. UpdateAnnunciators and DisplayUpdated take only
// the view lock, so the engine may call them while processing a key.
type Dispatcher struct {
	ctx context.Context

	engine      Engine
	repainter   Repainter
	journal     Journal
	menuHandler func(skin.MenuArea)
	delays      Delays

	viewLock       sync.RWMutex
	layout         *skin.Layout
	matcher        *keymap.Matcher
	transform      geometry.Transform
	view           geometry.Size
	maintainAspect bool
	displayEnabled atomic.Bool

	lock sync.Mutex
	// ckey is the calculator key held down, 0 when none.
	ckey              int
	skey              int
	action            model.Action
	source            model.EventSource
	mouseKey          bool
	activeKeyChar     string
	justPressedShift  bool
	possibleMenuEvent bool
	timer             *time.Timer
	timerGen          uint64
	running           bool
	closed            bool
}

func New(layout *skin.Layout, matcher *keymap.Matcher, engine Engine, repainter Repainter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ctx:       logging.PackageCtx("dispatch"),
		engine:    engine,
		repainter: repainter,
		delays:    DefaultDelays,
		layout:    layout,
		matcher:   matcher,
		transform: geometry.Identity,
		view:      layout.Size(),
		skey:      model.NoKey,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.displayEnabled.Store(true)

	return d
}

func (d *Dispatcher) Layout() *skin.Layout {
	d.viewLock.RLock()
	defer d.viewLock.RUnlock()

	return d.layout
}

func (d *Dispatcher) Transform() geometry.Transform {
	d.viewLock.RLock()
	defer d.viewLock.RUnlock()

	return d.transform
}

// Resize recomputes the skin transform for a new view size and repaints everything.
func (d *Dispatcher) Resize(view geometry.Size) {
	d.viewLock.Lock()
	d.view = view
	d.transform = geometry.FitScale(view, d.layout.Size(), d.maintainAspect)
	d.viewLock.Unlock()

	slog.DebugContext(d.ctx, "View resized", "width", view.Width, "height", view.Height)
	d.repainter.Invalidate(model.Rect{Width: view.Width, Height: view.Height})
}

// SetSkin switches to another skin, keeping the annunciator state of the current one and
// the pressed key when the new skin has that region. The skin's own keymap replaces the
// previous skin keymap.
func (d *Dispatcher) SetSkin(s *model.Skin) {
	d.viewLock.Lock()
	active := d.layout.ActiveKey()
	d.layout = skin.New(s, d.layout.AnnunciatorState())

	if _, ok := d.layout.KeyRect(active); ok {
		d.layout.SetActiveKey(active)
	}

	d.matcher = d.matcher.WithSkin(s.Keymap)
	d.transform = geometry.FitScale(d.view, d.layout.Size(), d.maintainAspect)
	view := d.view
	d.viewLock.Unlock()

	slog.InfoContext(d.ctx, "Skin switched", "keys", len(s.Keys), "keymapEntries", len(s.Keymap))
	d.repainter.Invalidate(model.Rect{Width: view.Width, Height: view.Height})
}

// UpdateAnnunciators is called by the engine with tri-state annunciator updates.
func (d *Dispatcher) UpdateAnnunciators(updates [model.AnnunciatorCount]model.AnnunciatorUpdate) {
	d.viewLock.RLock()
	r, ok := d.layout.UpdateAnnunciators(updates)
	t := d.transform
	d.viewLock.RUnlock()

	if ok {
		d.repainter.Invalidate(t.RectToDevice(r))
	}
}

// DisplayUpdated is called by the engine after it redrew part of the display; r is in
// skin coordinates. Updates are dropped while a multi-key macro executes.
func (d *Dispatcher) DisplayUpdated(r model.Rect) {
	if !d.displayEnabled.Load() {
		return
	}

	d.invalidate(r)
}

func (d *Dispatcher) invalidate(r model.Rect) {
	d.viewLock.RLock()
	t := d.transform
	d.viewLock.RUnlock()

	d.repainter.Invalidate(t.RectToDevice(r))
}

func (d *Dispatcher) current() (*skin.Layout, *keymap.Matcher, geometry.Transform) {
	d.viewLock.RLock()
	defer d.viewLock.RUnlock()

	return d.layout, d.matcher, d.transform
}

// Close cancels pending timers and stops a running program loop.
func (d *Dispatcher) Close() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.cancelTimers()
	d.closed = true
}
