package model

import (
	"image"
	"image/color"
	"time"
)

const (
	// Size of the calculator display bitmap in pixels.
	DisplayWidth  = 131
	DisplayHeight = 16

	// Physical keys are numbered 1..MaxPhysicalKey. Anything above is a macro reference.
	MaxPhysicalKey = 37
	MaxMacroCode   = 255

	// KeyShift is the calculator SHIFT key. A macro of [KeyShift, k] is "shifted k".
	KeyShift = 28
	// KeyRunStop is the R/S key.
	KeyRunStop = 36

	// AlphaKeyBase is added to a character code when it is typed directly into the ALPHA menu.
	AlphaKeyBase = 1024

	// NoKey means no region is active or hit.
	NoKey = -1
	// NoHighlightKey is used as key code for macros that highlight no key while executing.
	NoHighlightKey = -10

	// Soft keys are reported as region indexes SoftKeyLast..SoftKeyFirst (-7..-2).
	SoftKeyFirst = -2
	SoftKeyLast  = -7
	SoftKeyCount = 6

	AnnunciatorCount = 7
)

// Annunciator indexes, in the order the engine reports them.
const (
	AnnUpDown = iota
	AnnShift
	AnnPrint
	AnnRun
	AnnBattery
	AnnG
	AnnRad
)

type Point struct {
	X int
	Y int
}

type ScaleFactor struct {
	X float64
	Y float64
}

// Rect is a skin-local pixel rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func RectFromCorners(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Contains(p Point) bool {
	dx := p.X - r.X
	dy := p.Y - r.Y

	return dx >= 0 && dx < r.Width && dy >= 0 && dy < r.Height
}

// Union returns the smallest rect covering both r and o. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}

	if o.Empty() {
		return r
	}

	return RectFromCorners(
		min(r.X, o.X), min(r.Y, o.Y),
		max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom()))
}

func (r Rect) Intersects(o Rect) bool {
	return !r.Empty() && !o.Empty() &&
		r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

type DisplayDescriptor struct {
	Location   Point
	Scale      ScaleFactor
	Background color.RGBA
	Foreground color.RGBA
}

type KeyRegion struct {
	Code        int
	ShiftedCode int
	Sensitive   Rect
	Display     Rect
	Source      Point
}

// MacroBinding maps a key code to either a keystroke sequence or a named command.
type MacroBinding struct {
	Code int
	// Keys is set for the numeric form. Bytes above MaxPhysicalKey reference other macros.
	Keys []byte
	// Command is set for the quoted form.
	Command    string
	AltCommand string
	HasAlt     bool
	AltIsText  bool
}

func (m MacroBinding) IsCommand() bool {
	return m.Keys == nil
}

type AnnunciatorRegion struct {
	Index   int
	Display Rect
	Source  Point
	Defined bool
}

type KeymapEntry struct {
	Ctrl    bool
	Alt     bool
	Numpad  bool
	Shift   bool
	CShift  bool
	KeyChar string
	Macro   []byte
}

type Keymap []KeymapEntry

// Skin is the parsed form of a skin description. It is not modified after parsing.
type Skin struct {
	Base         Rect
	Display      DisplayDescriptor
	Keys         []KeyRegion
	Macros       []MacroBinding
	Annunciators [AnnunciatorCount]AnnunciatorRegion
	Keymap       Keymap
}

type AnnunciatorState [AnnunciatorCount]bool

type AnnunciatorUpdate int

const (
	AnnUnchanged AnnunciatorUpdate = -1
	AnnOff       AnnunciatorUpdate = 0
	AnnOn        AnnunciatorUpdate = 1
)

func AllUnchanged() [AnnunciatorCount]AnnunciatorUpdate {
	var u [AnnunciatorCount]AnnunciatorUpdate
	for i := range u {
		u[i] = AnnUnchanged
	}

	return u
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionKey
	ActionMacro
	ActionCommand
)

func (k ActionKind) String() string {
	switch k {
	case ActionKey:
		return "key"
	case ActionMacro:
		return "macro"
	case ActionCommand:
		return "command"
	default:
		return "none"
	}
}

// Action is what a key code resolves to.
type Action struct {
	Kind ActionKind
	// Code is the raw keystroke for ActionKey.
	Code int
	// Keys holds the fully expanded keystrokes for ActionMacro.
	Keys []byte
	// Command and IsText describe ActionCommand.
	Command string
	IsText  bool
	// SingleKey is set for macros that press only one physical key, optionally shifted.
	SingleKey bool
}

// IsSingleKey reports whether keys press only one calculator key, possibly after SHIFT.
func IsSingleKey(keys []byte) bool {
	return len(keys) == 1 || (len(keys) == 2 && keys[0] == KeyShift)
}

// HighlightCode returns the key to highlight while keys execute, or NoHighlightKey.
func HighlightCode(keys []byte) int {
	switch {
	case len(keys) == 1:
		return int(keys[0])
	case len(keys) == 2 && keys[0] == KeyShift:
		return int(keys[1])
	default:
		return NoHighlightKey
	}
}

type EventSource string

const (
	SourceTouch    EventSource = "touch"
	SourceKeyboard EventSource = "keyboard"
	SourceSoftKey  EventSource = "softkey"
)

// KeyEvent is one keystroke handed to the engine, as recorded by the journal.
type KeyEvent struct {
	Code    int
	Region  int
	Source  EventSource
	Pressed bool
}

type KeyEventWithTimestamp struct {
	Code      int
	Region    int
	Source    EventSource
	Pressed   bool
	Timestamp time.Time
}

// KeyUsage is the number of presses of a key code through one skin region.
type KeyUsage struct {
	Code   int
	Region int
	Count  int
}

// KeyPair counts how often Next was pressed right after Prev.
type KeyPair struct {
	Prev  int
	Next  int
	Count int
}

// KeyboardEvent is a physical keyboard or touch event read from an input feed.
type KeyboardEvent struct {
	Kind    KeyboardEventKind
	KeyChar string
	Ctrl    bool
	Alt     bool
	Shift   bool
	Numpad  bool
	X       float64
	Y       float64
}

type KeyboardEventKind int

const (
	EventKeyDown KeyboardEventKind = iota
	EventKeyUp
	EventTouchDown
	EventTouchUp
)
