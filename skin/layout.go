// Package skin hit-tests, resolves macros and tracks repaint state for a parsed skin.
package skin

import (
	"sync"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/model"
)

// Layout is a parsed skin plus the two pieces of state that change while it is shown:
// which annunciators are lit and which key is drawn pressed.
type Layout struct {
	skin *model.Skin

	lock      sync.Mutex
	ann       *model.AnnunciatorState
	activeKey int
}

// New wraps a parsed skin. Pass the annunciator state of a previous layout to keep it
// across a skin reload (for example an orientation change); nil starts with all off.
func New(skin *model.Skin, ann *model.AnnunciatorState) *Layout {
	if ann == nil {
		ann = &model.AnnunciatorState{}
	}

	return &Layout{
		skin:      skin,
		ann:       ann,
		activeKey: model.NoKey,
	}
}

func (l *Layout) Skin() *model.Skin {
	return l.skin
}

func (l *Layout) Size() geometry.Size {
	return geometry.Size{Width: l.skin.Base.Width, Height: l.skin.Base.Height}
}

// AnnunciatorState returns the shared state, for handing to a replacement layout.
func (l *Layout) AnnunciatorState() *model.AnnunciatorState {
	return l.ann
}

// Annunciators returns a copy of the current annunciator state.
func (l *Layout) Annunciators() model.AnnunciatorState {
	l.lock.Lock()
	defer l.lock.Unlock()

	return *l.ann
}

func (l *Layout) Shifted() bool {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.ann[model.AnnShift]
}

func (l *Layout) ActiveKey() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.activeKey
}

// DisplayRect is the skin rect covered by the scaled display bitmap.
func (l *Layout) DisplayRect() model.Rect {
	d := l.skin.Display

	return displayRect(d, 0, 0, model.DisplayWidth, model.DisplayHeight)
}

// DisplayRegion maps a region of the display bitmap to skin coordinates.
func (l *Layout) DisplayRegion(x, y, width, height int) model.Rect {
	return displayRect(l.skin.Display, x, y, width, height)
}
