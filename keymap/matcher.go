package keymap

import (
	"github.com/dasdy/calcskin/model"
)

// MenuState is the part of the calculator the reserved bindings depend on.
type MenuState interface {
	AlphaMenu() bool
	HexMenu() bool
	SpecialMenuKey(which int) int
}

// Special menu keys passed to MenuState.SpecialMenuKey.
const (
	SpecialLeft = iota + 1
	SpecialShiftLeft
	SpecialRight
	SpecialShiftRight
	SpecialDelete
)

// Match is the outcome of matching one keyboard event.
type Match struct {
	// Macro is the bound keystroke sequence, nil when only a reserved binding applies.
	Macro []byte
	Exact bool
	// Code is set when a reserved binding produced a calculator key code directly.
	Code int
}

func (m Match) Found() bool {
	return m.Macro != nil || m.Code != 0
}

// Matcher consults a skin's own keymap before the global one.
type Matcher struct {
	skin   model.Keymap
	global model.Keymap
}

func NewMatcher(skinKeymap, globalKeymap model.Keymap) *Matcher {
	return &Matcher{skin: skinKeymap, global: globalKeymap}
}

// WithSkin returns a matcher sharing the global keymap, for a newly loaded skin.
func (m *Matcher) WithSkin(skinKeymap model.Keymap) *Matcher {
	return &Matcher{skin: skinKeymap, global: m.global}
}

// Lookup searches the skin keymap, then the global one. An exact global match replaces
// an inexact skin match; a global fallback is used only when the skin had nothing.
func (m *Matcher) Lookup(q Query) ([]byte, bool) {
	macro, exact := Lookup(m.skin, q)
	if macro != nil && exact {
		return macro, true
	}

	gMacro, gExact := Lookup(m.global, q)

	switch {
	case gMacro != nil && gExact:
		return gMacro, true
	case macro == nil:
		return gMacro, false
	default:
		return macro, false
	}
}

// Match normalizes q, looks it up and applies the reserved bindings for the alpha menu,
// hex menu and menu navigation when the keymaps have no exact answer.
func (m *Matcher) Match(q Query, state MenuState) Match {
	q = NormalizeQuery(q)

	macro, exact := m.Lookup(q)
	result := Match{Macro: macro, Exact: exact}

	if macro != nil && exact || IsRunStop(macro) || q.Ctrl || q.Alt {
		return result
	}

	if code := reservedCode(q, state); code != 0 {
		return Match{Code: code}
	}

	return result
}

func reservedCode(q Query, state MenuState) int {
	ch := q.Char()

	if (q.Printable || ch == ' ') && state.AlphaMenu() {
		switch {
		case ch >= 'a' && ch <= 'z':
			ch += 'A' - 'a'
		case ch >= 'A' && ch <= 'Z':
			ch += 'a' - 'A'
		}

		return model.AlphaKeyBase + int(ch)
	}

	if state.HexMenu() {
		switch {
		case ch >= 'a' && ch <= 'f':
			return int(ch-'a') + 1
		case ch >= 'A' && ch <= 'F':
			return int(ch-'A') + 1
		}
	}

	var which int

	switch q.KeyChar {
	case KeyDpadLeft:
		which = SpecialLeft
		if q.Shift {
			which = SpecialShiftLeft
		}
	case KeyDpadRight:
		which = SpecialRight
		if q.Shift {
			which = SpecialShiftRight
		}
	case KeyForwardDel:
		which = SpecialDelete
	default:
		return 0
	}

	return state.SpecialMenuKey(which)
}
