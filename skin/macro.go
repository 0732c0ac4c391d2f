package skin

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dasdy/calcskin/model"
)

var ErrUnresolvedMacro = errors.New("unresolved macro reference")

const (
	// MaxExpandedLength bounds the keystrokes produced by expanding one macro.
	MaxExpandedLength = 1023
	maxExpandDepth    = 16
)

// FindMacro returns the first binding declared for code.
func (l *Layout) FindMacro(code int) (model.MacroBinding, bool) {
	for _, m := range l.skin.Macros {
		if m.Code == code {
			return m, true
		}
	}

	return model.MacroBinding{}, false
}

// Resolve turns a key code from a touch into the action to perform. alphaMenu selects the
// alternate command of a quoted macro when it has one.
func (l *Layout) Resolve(code int, alphaMenu bool) model.Action {
	m, ok := l.FindMacro(code)
	if !ok {
		if code >= 1 && code <= model.MaxPhysicalKey || code > model.MaxMacroCode {
			return model.Action{Kind: model.ActionKey, Code: code}
		}

		slog.Debug("No macro for key code", "code", code, "error", ErrUnresolvedMacro)

		return model.Action{Kind: model.ActionNone, Code: code}
	}

	if m.IsCommand() {
		return commandAction(m, alphaMenu)
	}

	action, err := l.Expand(m.Keys, alphaMenu)
	if err != nil {
		slog.Warn("Macro expanded partially", "code", code, "error", err)
	}

	return action
}

// Expand replaces macro references (bytes above MaxPhysicalKey) in keys by the keystrokes
// they stand for. A reference to a command macro ends expansion and yields that command.
// Dangling and cyclic references are dropped and reported with ErrUnresolvedMacro; the
// action built so far is still returned.
func (l *Layout) Expand(keys []byte, alphaMenu bool) (model.Action, error) {
	e := expander{
		layout:    l,
		alphaMenu: alphaMenu,
		out:       make([]byte, 0, len(keys)),
		active:    make(map[int]bool),
	}

	err := e.expand(keys, 0)

	if e.command != nil {
		return *e.command, err
	}

	return model.Action{
		Kind:      model.ActionMacro,
		Keys:      e.out,
		SingleKey: model.IsSingleKey(e.out),
	}, err
}

type expander struct {
	layout    *Layout
	alphaMenu bool
	out       []byte
	// active holds the macro codes on the current expansion path.
	active  map[int]bool
	command *model.Action
	errs    []error
}

func (e *expander) expand(keys []byte, depth int) error {
	for _, b := range keys {
		if e.command != nil || len(e.out) >= MaxExpandedLength {
			break
		}

		code := int(b)
		if code <= model.MaxPhysicalKey {
			e.out = append(e.out, b)

			continue
		}

		if e.active[code] || depth >= maxExpandDepth {
			e.errs = append(e.errs, fmt.Errorf("%w: macro %d is cyclic or nested too deep", ErrUnresolvedMacro, code))

			continue
		}

		m, ok := e.layout.FindMacro(code)
		if !ok {
			e.errs = append(e.errs, fmt.Errorf("%w: no macro %d", ErrUnresolvedMacro, code))

			continue
		}

		if m.IsCommand() {
			action := commandAction(m, e.alphaMenu)
			e.command = &action

			break
		}

		e.active[code] = true
		_ = e.expand(m.Keys, depth+1)
		delete(e.active, code)
	}

	return errors.Join(e.errs...)
}

func commandAction(m model.MacroBinding, alphaMenu bool) model.Action {
	if m.HasAlt && alphaMenu {
		return model.Action{Kind: model.ActionCommand, Command: m.AltCommand, IsText: m.AltIsText}
	}

	return model.Action{Kind: model.ActionCommand, Command: m.Command}
}
