package dispatch

import (
	"log/slog"

	"github.com/dasdy/calcskin/keymap"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
)

// TouchDown handles a press at a device point. It reports whether a key was hit.
func (d *Dispatcher) TouchDown(x, y float64) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.cancelTimers()

	layout, _, t := d.current()
	p := t.ToSkin(x, y)

	skey, ckey := layout.FindKey(d.engine.Menu(), p)
	if ckey == 0 {
		if layout.InMenuArea(p) != skin.MenuNone {
			d.possibleMenuEvent = true
		}

		return false
	}

	action := layout.Resolve(ckey, d.engine.AlphaMenu())
	if action.Kind == model.ActionNone {
		slog.DebugContext(d.ctx, "Key has no action", "region", skey, "code", ckey)

		return false
	}

	d.ckey = ckey
	d.skey = skey
	d.action = action
	d.source = model.SourceTouch

	if skey <= model.SoftKeyFirst {
		d.source = model.SourceSoftKey
	}

	slog.DebugContext(d.ctx, "Touch down", "x", p.X, "y", p.Y, "region", skey, "code", ckey, "action", d.action.Kind)

	d.keyDown()
	d.mouseKey = true

	return true
}

// TouchUp handles a release. A tap that started and ended in the display's menu area
// is reported to the menu handler.
func (d *Dispatcher) TouchUp(x, y float64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.cancelTimers()

	_, _, t := d.current()
	p := t.ToSkin(x, y)
	d.keyUp(&p)
}

// KeyDown handles a physical key press. It reports whether the event was consumed.
func (d *Dispatcher) KeyDown(ev model.KeyboardEvent) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.ckey != 0 && d.mouseKey {
		return false
	}

	switch ev.KeyChar {
	case KeyShiftLeft, KeyShiftRight:
		d.justPressedShift = true

		return false
	case KeyAltLeft, KeyAltRight, KeyCtrlLeft, KeyCtrlRight:
		d.justPressedShift = false

		return false
	}

	d.justPressedShift = false
	d.cancelTimers()

	layout, matcher, _ := d.current()

	q := keymap.Query{
		KeyChar: ev.KeyChar,
		Ctrl:    ev.Ctrl,
		Alt:     ev.Alt,
		Numpad:  ev.Numpad,
		Shift:   ev.Shift,
		CShift:  layout.Shifted(),
	}

	if d.ckey != 0 {
		d.keyUp(nil)
		d.activeKeyChar = ""
	}

	match := matcher.Match(q, d.engine)

	switch {
	case match.Code != 0:
		d.ckey = match.Code
		d.action = model.Action{Kind: model.ActionKey, Code: match.Code}
	case match.Macro != nil:
		action, err := layout.Expand(match.Macro, d.engine.AlphaMenu())
		if err != nil {
			slog.WarnContext(d.ctx, "Keymap macro expanded partially", "key", ev.KeyChar, "error", err)
		}

		// Highlighting follows the keymap entry as written, not its expansion.
		d.ckey = model.HighlightCode(match.Macro)
		d.action = action
	default:
		slog.DebugContext(d.ctx, "Unhandled key", "key", ev.KeyChar, "ctrl", ev.Ctrl, "alt", ev.Alt, "shift", ev.Shift)

		return false
	}

	d.skey = model.NoKey
	d.source = model.SourceKeyboard

	d.keyDown()
	d.mouseKey = false
	d.activeKeyChar = ev.KeyChar

	return true
}

// KeyUp handles a physical key release. A Shift pressed and released on its own acts as
// the calculator's SHIFT key.
func (d *Dispatcher) KeyUp(ev model.KeyboardEvent) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.justPressedShift {
		d.justPressedShift = false
		d.cancelTimers()

		d.ckey = model.KeyShift
		d.skey = model.NoKey
		d.action = model.Action{Kind: model.ActionKey, Code: model.KeyShift}
		d.source = model.SourceKeyboard

		d.keyDown()
		d.keyUp(nil)

		return true
	}

	if !d.mouseKey && d.activeKeyChar != "" && ev.KeyChar == d.activeKeyChar {
		d.cancelTimers()
		d.keyUp(nil)
		d.activeKeyChar = ""

		return true
	}

	return false
}

// keyDown presses the pending key: highlight it, hand the action to the engine and arm
// the repeat or timeout timer.
func (d *Dispatcher) keyDown() {
	layout, _, _ := d.current()

	if d.skey == model.NoKey {
		d.skey = layout.FindSkinKey(d.ckey, layout.Shifted())
	}

	if r, ok := layout.SetActiveKey(d.skey); ok {
		d.invalidate(r)
	}

	d.record(true)

	var (
		res     KeyResult
		running bool
	)

	switch d.action.Kind {
	case model.ActionNone:
		res = KeyResult{Enqueued: true}
	case model.ActionCommand:
		res = d.engine.KeyDownCommand(d.action.Command, d.action.IsText)
		running = res.Running
	case model.ActionMacro:
		res, running = d.runMacro(d.action.Keys, d.action.SingleKey)
	case model.ActionKey:
		res = d.engine.KeyDown(d.ckey)
		running = res.Running
	}

	switch {
	case running:
		d.startRunner()
	case res.Repeat != 0:
		delay := d.delays.FirstRepeatSlow
		if res.Repeat != 1 {
			delay = d.delays.FirstRepeatFast
		}

		d.schedule(delay, d.repeater)
	case !res.Enqueued:
		d.schedule(d.delays.Timeout1, d.timeout1)
	}
}

func (d *Dispatcher) runMacro(keys []byte, singleKey bool) (KeyResult, bool) {
	var (
		res     KeyResult
		running bool
	)

	if singleKey {
		for i, k := range keys {
			res = d.engine.KeyDown(int(k))
			running = res.Running

			if i < len(keys)-1 && !res.Enqueued {
				d.engine.KeyUp()
			}
		}

		return res, running
	}

	waitForProgram := !d.running

	d.displayEnabled.Store(false)
	defer func() {
		d.displayEnabled.Store(true)
		d.invalidate(d.Layout().DisplayRect())
	}()

	for _, k := range keys {
		res = d.engine.KeyDown(int(k))
		running = res.Running

		if !res.Enqueued {
			running = d.engine.KeyUp()
		}

		for waitForProgram && running {
			running = d.engine.KeyDown(0).Running
		}
	}

	return res, running
}

// keyUp releases the held key. p is the release point of a touch, nil for the keyboard.
func (d *Dispatcher) keyUp(p *model.Point) {
	layout, _, _ := d.current()

	if d.possibleMenuEvent && p != nil {
		d.possibleMenuEvent = false

		if area := layout.InMenuArea(*p); area != skin.MenuNone && d.menuHandler != nil {
			d.menuHandler(area)
		}
	}

	if d.ckey != 0 {
		d.record(false)
	}

	d.ckey = 0
	d.skey = model.NoKey

	if r, ok := layout.SetActiveKey(model.NoKey); ok {
		d.invalidate(r)
	}

	if d.engine.KeyUp() {
		d.startRunner()
	}
}

func (d *Dispatcher) record(pressed bool) {
	if d.journal == nil {
		return
	}

	event := &model.KeyEvent{Code: d.ckey, Region: d.skey, Source: d.source, Pressed: pressed}
	if err := d.journal.Store(event); err != nil {
		slog.ErrorContext(d.ctx, "Could not record keystroke", "code", d.ckey, "error", err)
	}
}
