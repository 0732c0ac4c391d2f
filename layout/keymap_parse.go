package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dasdy/calcskin/model"
)

// MaxKeymapMacroLength is the longest keystroke sequence a keymap line may bind.
const MaxKeymapMacroLength = 31

var ErrMalformedKeymapLine = errors.New("malformed keymap line")

// ParseKeymapLine parses one line of the form
//
//	[ctrl] [alt] [numpad] [shift] [cshift] <keychar> : <byte> <byte> ...
//
// Lines without a colon (blank lines, comments) are not entries and return (nil, nil).
func ParseKeymapLine(line string, lineno int) (*model.KeymapEntry, error) {
	if p := strings.IndexByte(line, '#'); p != -1 {
		line = line[:p]
	}

	if p := strings.IndexAny(line, "\r\n"); p != -1 {
		line = line[:p]
	}

	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return nil, nil
	}

	entry := model.KeymapEntry{}

	done := false

	for _, tok := range strings.Fields(line[:colon]) {
		if done {
			return nil, fmt.Errorf("%w: line %d: excess tokens before the colon", ErrMalformedKeymapLine, lineno)
		}

		switch strings.ToLower(tok) {
		case "ctrl":
			entry.Ctrl = true
		case "alt":
			entry.Alt = true
		case "numpad":
			entry.Numpad = true
		case "shift":
			entry.Shift = true
		case "cshift":
			entry.CShift = true
		default:
			entry.KeyChar = ParseKeyChar(tok)
			done = true
		}
	}

	if !done {
		return nil, fmt.Errorf("%w: line %d: unrecognized keycode", ErrMalformedKeymapLine, lineno)
	}

	tokens := strings.Fields(line[colon+1:])
	entry.Macro = make([]byte, 0, len(tokens))

	for _, tok := range tokens {
		k, err := strconv.ParseInt(tok, 10, 16)
		if err != nil || k < 1 || k > model.MaxMacroCode {
			return nil, fmt.Errorf("%w: line %d: bad value (%s) in macro", ErrMalformedKeymapLine, lineno, tok)
		}

		if len(entry.Macro) == MaxKeymapMacroLength {
			return nil, fmt.Errorf("%w: line %d: macro too long (max=%d)",
				ErrMalformedKeymapLine, lineno, MaxKeymapMacroLength)
		}

		entry.Macro = append(entry.Macro, byte(k))
	}

	return &entry, nil
}

// ParseKeyChar turns "0x<hex>" into the character with that code, keeping the low 16 bits
// of codes that do not fit in a UTF-16 unit. Anything else is literal.
func ParseKeyChar(tok string) string {
	if len(tok) > 2 && strings.EqualFold(tok[:2], "0x") {
		if v, err := strconv.ParseUint(tok[2:], 16, 32); err == nil {
			return string(rune(uint16(v)))
		}
	}

	return tok
}

// ParseKeymap reads a standalone keymap resource. Malformed lines are logged and skipped.
func ParseKeymap(r io.Reader) (model.Keymap, error) {
	keymap := make(model.Keymap, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	lineno := 0

	for scanner.Scan() {
		lineno++

		entry, err := ParseKeymapLine(scanner.Text(), lineno)
		if err != nil {
			slog.Warn("Skipping keymap line", "error", err)

			continue
		}

		if entry != nil {
			keymap = append(keymap, *entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read keymap: %w", err)
	}

	return keymap, nil
}
