package skin

import (
	"math"

	"github.com/dasdy/calcskin/model"
)

// Soft key geometry in display pixels: six 21-pixel labels on a 22-pixel pitch,
// occupying rows 9..15 of the display.
const (
	softKeyPitch  = 22
	softKeyWidth  = 21
	softKeyTop    = 9
	softKeyHeight = 7
)

type MenuArea int

const (
	MenuNone MenuArea = iota
	MenuLeft
	MenuRight
)

// FindKey hit-tests a skin point. It returns the region index and calculator key code:
// a soft key yields index -1-n and code n (1..6); a physical key yields its index and
// code (the shifted code while SHIFT is lit); a miss yields (NoKey, 0).
func (l *Layout) FindKey(menuActive bool, p model.Point) (int, int) {
	d := l.skin.Display

	if menuActive &&
		float64(p.X) >= float64(d.Location.X) &&
		float64(p.X) < float64(d.Location.X)+model.DisplayWidth*d.Scale.X &&
		float64(p.Y) >= float64(d.Location.Y)+softKeyTop*d.Scale.Y &&
		float64(p.Y) < float64(d.Location.Y)+model.DisplayHeight*d.Scale.Y {
		softKey := int(float64(p.X-d.Location.X)/(softKeyPitch*d.Scale.X)) + 1

		return -1 - softKey, softKey
	}

	shifted := l.Shifted()

	for i, k := range l.skin.Keys {
		if !k.Sensitive.Contains(p) {
			continue
		}

		if shifted {
			return i, k.ShiftedCode
		}

		return i, k.Code
	}

	return model.NoKey, 0
}

// FindSkinKey returns the region to highlight for a key code that did not come from a
// touch. A region whose code on the current shift plane matches wins; otherwise the first
// region carrying the code on either plane.
func (l *Layout) FindSkinKey(code int, cshift bool) int {
	fuzzy := model.NoKey

	for i, k := range l.skin.Keys {
		if k.Code != code && k.ShiftedCode != code {
			continue
		}

		planeCode := k.Code
		if cshift {
			planeCode = k.ShiftedCode
		}

		if planeCode == code {
			return i
		}

		if fuzzy == model.NoKey {
			fuzzy = i
		}
	}

	return fuzzy
}

// InMenuArea reports whether a point that hit no key lies in the top half of the display
// area, where a tap opens the host menu.
func (l *Layout) InMenuArea(p model.Point) MenuArea {
	d := l.skin.Display

	if float64(p.Y) >= float64(d.Location.Y)+d.Scale.Y*model.DisplayHeight/2 {
		return MenuNone
	}

	if float64(p.X) > float64(d.Location.X)+d.Scale.X*model.DisplayWidth/2 {
		return MenuRight
	}

	return MenuLeft
}

// KeyRect returns the skin rect drawn for a region index, including soft keys.
func (l *Layout) KeyRect(index int) (model.Rect, bool) {
	switch {
	case index >= model.SoftKeyLast && index <= model.SoftKeyFirst:
		d := l.skin.Display
		x := int(float64(-2-index)*softKeyPitch*d.Scale.X + float64(d.Location.X))
		y := int(softKeyTop*d.Scale.Y + float64(d.Location.Y))
		right := int(math.Ceil(float64(x) + softKeyWidth*d.Scale.X))
		bottom := int(math.Ceil(float64(y) + softKeyHeight*d.Scale.Y))

		return model.RectFromCorners(x, y, right, bottom), true
	case index >= 0 && index < len(l.skin.Keys):
		return l.skin.Keys[index].Display, true
	default:
		return model.Rect{}, false
	}
}

// SoftKeySource is the display-bitmap rect of soft key n (1..6).
func SoftKeySource(n int) model.Rect {
	return model.Rect{X: (n - 1) * softKeyPitch, Y: softKeyTop, Width: softKeyWidth, Height: softKeyHeight}
}

func displayRect(d model.DisplayDescriptor, x, y, width, height int) model.Rect {
	left := int(float64(d.Location.X) + float64(x)*d.Scale.X)
	top := int(float64(d.Location.Y) + float64(y)*d.Scale.Y)
	right := int(math.Ceil(float64(d.Location.X) + float64(x+width)*d.Scale.X))
	bottom := int(math.Ceil(float64(d.Location.Y) + float64(y+height)*d.Scale.Y))

	return model.RectFromCorners(left, top, right, bottom)
}
