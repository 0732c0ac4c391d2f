package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dasdy/calcskin/layout"
	"github.com/dasdy/calcskin/model"
)

var ErrMalformedEvent = errors.New("malformed event line")

const resetEscape = "\x1b[0m"

var markers = []struct {
	prefix string
	kind   model.KeyboardEventKind
}{
	{"key down:", model.EventKeyDown},
	{"key up:", model.EventKeyUp},
	{"touch down:", model.EventTouchDown},
	{"touch up:", model.EventTouchUp},
}

// Key names that cannot be written literally on an event line.
var namedChars = map[string]string{
	"ENTER": "\n",
	"SPACE": " ",
	"TAB":   "\t",
}

// ParseLine reads one event line. The event may follow any prefix, e.g. a device log
// timestamp:
//
//	[12:00:01.100] key down: ESCAPE ctrl
//	key up: a
//	touch down: 120 340.5
//
// Lines without an event return (nil, nil).
func ParseLine(line string) (*model.KeyboardEvent, error) {
	line = strings.TrimSuffix(strings.TrimRight(line, "\r\n"), resetEscape)

	for _, m := range markers {
		ix := strings.Index(line, m.prefix)
		if ix == -1 {
			continue
		}

		fields := strings.Fields(line[ix+len(m.prefix):])

		if m.kind == model.EventTouchDown || m.kind == model.EventTouchUp {
			return parseTouch(m.kind, fields)
		}

		return parseKey(m.kind, fields)
	}

	return nil, nil
}

func parseKey(kind model.KeyboardEventKind, fields []string) (*model.KeyboardEvent, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: missing key", ErrMalformedEvent)
	}

	event := &model.KeyboardEvent{Kind: kind, KeyChar: keyChar(fields[0])}

	for _, mod := range fields[1:] {
		switch strings.ToLower(mod) {
		case "ctrl":
			event.Ctrl = true
		case "alt":
			event.Alt = true
		case "shift":
			event.Shift = true
		case "numpad":
			event.Numpad = true
		default:
			return nil, fmt.Errorf("%w: unknown modifier '%s'", ErrMalformedEvent, mod)
		}
	}

	return event, nil
}

func keyChar(tok string) string {
	if c, ok := namedChars[strings.ToUpper(tok)]; ok {
		return c
	}

	return layout.ParseKeyChar(tok)
}

func parseTouch(kind model.KeyboardEventKind, fields []string) (*model.KeyboardEvent, error) {
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: expected x and y, got %d values", ErrMalformedEvent, len(fields))
	}

	x, err := strconv.ParseFloat(strings.TrimRight(fields[0], ","), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse x: %w", ErrMalformedEvent, err)
	}

	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse y: %w", ErrMalformedEvent, err)
	}

	return &model.KeyboardEvent{Kind: kind, X: x, Y: y}, nil
}
