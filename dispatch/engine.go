// Package dispatch turns touch and keyboard events into calculator keystrokes.
package dispatch

import (
	"time"

	"github.com/dasdy/calcskin/model"
)

// KeyResult is what the engine reports after a keystroke.
type KeyResult struct {
	// Running is set while a program runs and the engine wants to be called again.
	Running bool
	// Enqueued is set when the key was queued rather than processed.
	Enqueued bool
	// Repeat is 1 for a slow auto-repeat, 2 for a fast one, 0 for none.
	Repeat int
}

// Engine is the calculator core. Its methods are called with the dispatcher's input lock
// held; it may call UpdateAnnunciators and DisplayUpdated from inside them.
type Engine interface {
	Menu() bool
	AlphaMenu() bool
	HexMenu() bool
	SpecialMenuKey(which int) int
	KeyDown(code int) KeyResult
	KeyDownCommand(name string, isText bool) KeyResult
	KeyUp() bool
	// Repeat is called when a repeating key fires again.
	Repeat() int
	KeyTimeout1()
	KeyTimeout2()
}

// Repainter receives device rects that must be redrawn.
type Repainter interface {
	Invalidate(model.Rect)
}

// RepaintFunc adapts a function to Repainter.
type RepaintFunc func(model.Rect)

func (f RepaintFunc) Invalidate(r model.Rect) {
	if f != nil {
		f(r)
	}
}

// Journal records the keystrokes handed to the engine.
type Journal interface {
	Store(event *model.KeyEvent) error
}

// Delays are the auto-repeat and key timeout intervals.
type Delays struct {
	FirstRepeatSlow time.Duration
	FirstRepeatFast time.Duration
	RepeatSlow      time.Duration
	RepeatFast      time.Duration
	Timeout1        time.Duration
	Timeout2        time.Duration
}

var DefaultDelays = Delays{
	FirstRepeatSlow: 1000 * time.Millisecond,
	FirstRepeatFast: 500 * time.Millisecond,
	RepeatSlow:      200 * time.Millisecond,
	RepeatFast:      100 * time.Millisecond,
	Timeout1:        250 * time.Millisecond,
	Timeout2:        1750 * time.Millisecond,
}

// IdleEngine never runs a program and accepts every key at once; menu state is fixed.
// Tools use it to exercise hit-testing and key matching without a calculator core.
type IdleEngine struct {
	MenuActive bool
	Alpha      bool
	Hex        bool
}

func (e IdleEngine) Menu() bool { return e.MenuActive }
func (e IdleEngine) AlphaMenu() bool { return e.Alpha }
func (e IdleEngine) HexMenu() bool { return e.Hex }
func (e IdleEngine) SpecialMenuKey(int) int { return 0 }
func (e IdleEngine) KeyDown(int) KeyResult { return KeyResult{Enqueued: true} }
func (e IdleEngine) KeyDownCommand(string, bool) KeyResult { return KeyResult{Enqueued: true} }
func (e IdleEngine) KeyUp() bool { return false }
func (e IdleEngine) Repeat() int { return 0 }
func (e IdleEngine) KeyTimeout1() {}
func (e IdleEngine) KeyTimeout2() {}
