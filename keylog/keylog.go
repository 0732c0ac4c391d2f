// Package keylog feeds keyboard and touch event lines into a dispatcher and records what
// reaches the calculator.
package keylog

import (
	"context"
	"log/slog"

	"github.com/dasdy/calcskin/db"
	"github.com/dasdy/calcskin/keylog/parser"
	"github.com/dasdy/calcskin/logging"
	"github.com/dasdy/calcskin/model"
)

// Input receives parsed events. *dispatch.Dispatcher implements it.
type Input interface {
	KeyDown(ev model.KeyboardEvent) bool
	KeyUp(ev model.KeyboardEvent) bool
	TouchDown(x, y float64) bool
	TouchUp(x, y float64)
}

// Loop parses lines from ch until it is closed or ctx is done.
func Loop(ctx context.Context, ch <-chan string, input Input, verbose bool) {
	logCtx := logging.AppendCtx(ctx, slog.String(logging.PackageName, "keylog"))

	for {
		select {
		case line, ok := <-ch:
			if !ok {
				slog.InfoContext(logCtx, "Input closed, bailing out")

				return
			}

			handleLine(logCtx, line, input, verbose)
		case <-ctx.Done():
			return
		}
	}
}

func handleLine(ctx context.Context, line string, input Input, verbose bool) {
	event, err := parser.ParseLine(line)
	if err != nil {
		slog.WarnContext(ctx, "Could not parse line", "line", line, "error", err)

		return
	}

	if event == nil {
		return
	}

	var handled bool

	switch event.Kind {
	case model.EventKeyDown:
		handled = input.KeyDown(*event)
	case model.EventKeyUp:
		handled = input.KeyUp(*event)
	case model.EventTouchDown:
		handled = input.TouchDown(event.X, event.Y)
	case model.EventTouchUp:
		input.TouchUp(event.X, event.Y)

		handled = true
	}

	if verbose {
		slog.InfoContext(ctx, "Event", "event", *event, "handled", handled)
	}
}

// Recorder stores every keystroke and hands it to the trackers.
type Recorder struct {
	storage  db.Storage
	trackers []db.Tracker
	verbose  bool
}

func NewRecorder(storage db.Storage, verbose bool, trackers ...db.Tracker) *Recorder {
	return &Recorder{storage: storage, trackers: trackers, verbose: verbose}
}

func (r *Recorder) Store(event *model.KeyEvent) error {
	for _, t := range r.trackers {
		t.HandleKeyNow(event, r.verbose)
	}

	return r.storage.Store(event)
}
