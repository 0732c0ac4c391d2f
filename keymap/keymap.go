// Package keymap matches physical keyboard events against keymap tables.
package keymap

import (
	"bytes"
	"strings"

	"github.com/dasdy/calcskin/model"
)

// Symbolic key names with special handling.
const (
	KeyEscape     = "ESCAPE"
	KeyDpadLeft   = "DPAD_LEFT"
	KeyDpadRight  = "DPAD_RIGHT"
	KeyForwardDel = "FORWARD_DEL"

	numpadPrefix = "NUMPAD_"
)

// Query is a keyboard event as seen by the matcher. CShift is the calculator's own
// shift state, not the keyboard's.
type Query struct {
	KeyChar   string
	Printable bool
	Ctrl      bool
	Alt       bool
	Numpad    bool
	Shift     bool
	CShift    bool
}

// NormalizeQuery applies the keyboard conventions every keymap is written against:
// ESCAPE never carries ctrl, Ctrl-[ stands in for ESCAPE on keyboards without one,
// NUMPAD_* key names set the numpad flag, and printability is derived from the character.
func NormalizeQuery(q Query) Query {
	switch {
	case q.KeyChar == KeyEscape:
		q.Ctrl = false
	case q.KeyChar == "[" && q.Ctrl:
		q.Ctrl = false
		q.KeyChar = KeyEscape
	}

	if strings.HasPrefix(q.KeyChar, numpadPrefix) {
		q.Numpad = true
	}

	ch := q.Char()
	q.Printable = !q.Ctrl && !q.Alt && ch >= 33 && ch <= 126

	return q
}

// Char returns the character typed, or 0 for a symbolic key name.
func (q Query) Char() rune {
	r := []rune(q.KeyChar)
	if len(r) != 1 {
		return 0
	}

	return r[0]
}

func candidate(e *model.KeymapEntry, q Query) bool {
	return q.Ctrl == e.Ctrl &&
		q.Alt == e.Alt &&
		(q.Printable || q.Shift == e.Shift) &&
		q.KeyChar == e.KeyChar
}

func exactMatch(e *model.KeymapEntry, q Query) bool {
	return (!q.Numpad || q.Shift == e.Shift) &&
		q.Numpad == e.Numpad &&
		q.CShift == e.CShift
}

func fallbackMatch(e *model.KeymapEntry, q Query) bool {
	return (q.Numpad || !e.Numpad) && (q.CShift || !e.CShift)
}

// Lookup searches one table. The first exact match ends the search; otherwise the first
// entry that matches loosely is returned with exact false. No match returns (nil, false).
func Lookup(table model.Keymap, q Query) ([]byte, bool) {
	var fallback []byte

	for i := range table {
		e := &table[i]
		if !candidate(e, q) {
			continue
		}

		if exactMatch(e, q) {
			return e.Macro, true
		}

		if fallback == nil && fallbackMatch(e, q) {
			fallback = e.Macro
		}
	}

	return fallback, false
}

// IsRunStop reports whether a macro is the run/stop binding, which reserved bindings must
// never shadow.
func IsRunStop(macro []byte) bool {
	return bytes.Equal(macro, []byte{model.KeyRunStop}) ||
		bytes.Equal(macro, []byte{model.KeyShift, model.KeyRunStop})
}
