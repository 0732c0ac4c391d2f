// Package geometry converts between device (view) coordinates and skin coordinates.
package geometry

import (
	"math"

	"github.com/dasdy/calcskin/model"
)

type Size struct {
	Width  int
	Height int
}

// Transform maps skin coordinates to device coordinates: device = skin*Scale + Offset.
type Transform struct {
	Scale  model.ScaleFactor
	Offset model.Point
}

// Identity is the transform of a view that is exactly the size of the skin.
var Identity = Transform{Scale: model.ScaleFactor{X: 1, Y: 1}}

// DeviceToSkin maps a touch point to skin coordinates, truncating toward zero.
func DeviceToSkin(x, y float64, scale model.ScaleFactor, offset model.Point) model.Point {
	return model.Point{
		X: int((x - float64(offset.X)) / scale.X),
		Y: int((y - float64(offset.Y)) / scale.Y),
	}
}

// SkinRectToDevice maps a skin rect to the device rect that must be repainted for it.
// The result is grown by one pixel on every side so rounding never leaves a stale sliver.
func SkinRectToDevice(r model.Rect, scale model.ScaleFactor, offset model.Point) model.Rect {
	left := int(math.Floor(float64(r.X)*scale.X + float64(offset.X)))
	top := int(math.Floor(float64(r.Y)*scale.Y + float64(offset.Y)))
	right := int(math.Ceil(float64(r.Right())*scale.X + float64(offset.X)))
	bottom := int(math.Ceil(float64(r.Bottom())*scale.Y + float64(offset.Y)))

	return model.RectFromCorners(left-1, top-1, right+1, bottom+1)
}

// FitScale computes the transform that fits a skin into a view. Without maintainAspect
// the skin is stretched to fill the view. With it, both axes share the smaller ratio and
// the other axis is centred.
func FitScale(view, skin Size, maintainAspect bool) Transform {
	if skin.Width <= 0 || skin.Height <= 0 {
		return Identity
	}

	t := Transform{
		Scale: model.ScaleFactor{
			X: float64(view.Width) / float64(skin.Width),
			Y: float64(view.Height) / float64(skin.Height),
		},
	}

	if !maintainAspect {
		return t
	}

	if t.Scale.X > t.Scale.Y {
		t.Scale.X = t.Scale.Y
		t.Offset.X = int((float64(view.Width) - float64(skin.Width)*t.Scale.X) / 2)
	} else {
		t.Scale.Y = t.Scale.X
		t.Offset.Y = int((float64(view.Height) - float64(skin.Height)*t.Scale.Y) / 2)
	}

	return t
}

func (t Transform) ToSkin(x, y float64) model.Point {
	return DeviceToSkin(x, y, t.Scale, t.Offset)
}

func (t Transform) RectToDevice(r model.Rect) model.Rect {
	return SkinRectToDevice(r, t.Scale, t.Offset)
}

// SkinBounds is the device rect covered by a skin of the given size.
func (t Transform) SkinBounds(skin Size) model.Rect {
	return model.Rect{
		X:      t.Offset.X,
		Y:      t.Offset.Y,
		Width:  int(math.Round(float64(skin.Width) * t.Scale.X)),
		Height: int(math.Round(float64(skin.Height) * t.Scale.Y)),
	}
}
