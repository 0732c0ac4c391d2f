package skin

import (
	"github.com/dasdy/calcskin/model"
)

// UpdateAnnunciators applies tri-state updates from the engine and returns the skin rect
// covering every drawn annunciator that changed. ok is false when nothing needs a repaint.
func (l *Layout) UpdateAnnunciators(updates [model.AnnunciatorCount]model.AnnunciatorUpdate) (model.Rect, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()

	var dirty model.Rect

	drawn := false

	for i, u := range updates {
		if u == model.AnnUnchanged {
			continue
		}

		on := u == model.AnnOn
		if l.ann[i] == on {
			continue
		}

		l.ann[i] = on

		// State of an annunciator the skin does not draw is still tracked.
		if region := l.skin.Annunciators[i]; region.Defined {
			dirty = unionRect(dirty, region.Display, drawn)
			drawn = true
		}
	}

	return dirty, drawn
}

// SetActiveKey marks a region as pressed (NoKey releases) and returns the skin rect that
// must be repainted: the old and new key together.
func (l *Layout) SetActiveKey(index int) (model.Rect, bool) {
	l.lock.Lock()
	prev := l.activeKey
	l.activeKey = index
	l.lock.Unlock()

	r1, ok1 := l.KeyRect(prev)
	r2, ok2 := l.KeyRect(index)

	switch {
	case ok1 && ok2:
		return unionRect(r1, r2, true), true
	case ok1:
		return r1, true
	case ok2:
		return r2, true
	default:
		return model.Rect{}, false
	}
}

// unionRect grows acc by r. Unlike Rect.Union it keeps zero-sized rects, which a skin may
// declare for an annunciator it does not draw.
func unionRect(acc, r model.Rect, accValid bool) model.Rect {
	if !accValid {
		return r
	}

	return model.RectFromCorners(
		min(acc.X, r.X), min(acc.Y, r.Y),
		max(acc.Right(), r.Right()), max(acc.Bottom(), r.Bottom()))
}
