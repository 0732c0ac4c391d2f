// Package render draws a skin, its display and the keyboard shortcut overlay.
package render

import (
	"image"
	"image/color"

	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	"golang.org/x/image/draw"
)

// Display is the calculator's 131x16 pixel screen in the skin's colours.
type Display struct {
	layout *skin.Layout
	img    *image.RGBA
	bg     color.RGBA
	fg     color.RGBA
}

func NewDisplay(layout *skin.Layout) *Display {
	desc := layout.Skin().Display

	d := &Display{
		layout: layout,
		img:    image.NewRGBA(image.Rect(0, 0, model.DisplayWidth, model.DisplayHeight)),
		bg:     desc.Background,
		fg:     desc.Foreground,
	}

	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(d.bg), image.Point{}, draw.Src)

	return d
}

func (d *Display) Image() *image.RGBA {
	return d.img
}

// Blit copies a region of a 1 bit per pixel bitmap (least significant bit leftmost) onto
// the display and returns the skin rect that shows it.
func (d *Display) Blit(bits []byte, bytesPerLine, x, y, width, height int) model.Rect {
	area := image.Rect(x, y, x+width, y+height).Intersect(d.img.Bounds())

	for v := area.Min.Y; v < area.Max.Y; v++ {
		for h := area.Min.X; h < area.Max.X; h++ {
			i := h>>3 + v*bytesPerLine

			c := d.bg
			if i < len(bits) && bits[i]&(1<<(h&7)) != 0 {
				c = d.fg
			}

			d.img.SetRGBA(h, v, c)
		}
	}

	return d.layout.DisplayRegion(x, y, width, height)
}

// Clear fills the display with the background colour.
func (d *Display) Clear() model.Rect {
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(d.bg), image.Point{}, draw.Src)

	return d.layout.DisplayRect()
}

// invertedSoftKey returns soft key n (1..6) with foreground and background swapped.
func (d *Display) invertedSoftKey(n int) *image.RGBA {
	src := skin.SoftKeySource(n).ImageRect()
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))

	for v := range src.Dy() {
		for h := range src.Dx() {
			c := d.img.RGBAAt(src.Min.X+h, src.Min.Y+v)
			if c == d.bg {
				c = d.fg
			} else {
				c = d.bg
			}

			out.SetRGBA(h, v, c)
		}
	}

	return out
}
