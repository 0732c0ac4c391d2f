package dispatch

import (
	"log/slog"
	"time"
)

// cancelTimers stops the pending repeat or timeout. A callback that already fired but
// waits for the lock sees a stale generation and does nothing.
func (d *Dispatcher) cancelTimers() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.timerGen++
}

// schedule arms the single pending timer. Callers hold d.lock.
func (d *Dispatcher) schedule(delay time.Duration, fn func()) {
	d.cancelTimers()

	gen := d.timerGen
	d.timer = time.AfterFunc(delay, func() {
		d.lock.Lock()
		defer d.lock.Unlock()

		if gen != d.timerGen || d.closed {
			return
		}

		d.timer = nil
		fn()
	})
}

func (d *Dispatcher) repeater() {
	if d.ckey == 0 {
		return
	}

	switch d.engine.Repeat() {
	case 0:
		d.schedule(d.delays.Timeout1, d.timeout1)
	case 1:
		d.schedule(d.delays.RepeatSlow, d.repeater)
	default:
		d.schedule(d.delays.RepeatFast, d.repeater)
	}
}

func (d *Dispatcher) timeout1() {
	if d.ckey == 0 {
		return
	}

	d.engine.KeyTimeout1()
	d.schedule(d.delays.Timeout2, d.timeout2)
}

func (d *Dispatcher) timeout2() {
	if d.ckey != 0 {
		d.engine.KeyTimeout2()
	}
}

// startRunner keeps calling the engine while a program runs. Each step takes the input
// lock, so key events interleave with program execution.
func (d *Dispatcher) startRunner() {
	if d.running {
		return
	}

	d.running = true

	go func() {
		slog.DebugContext(d.ctx, "Program started")
		defer slog.DebugContext(d.ctx, "Program stopped")

		for {
			d.lock.Lock()

			if d.closed || !d.engine.KeyDown(0).Running {
				d.running = false
				d.lock.Unlock()

				return
			}

			d.lock.Unlock()
		}
	}()
}
