package render

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	"golang.org/x/image/draw"
)

// Compositor draws the current state of a layout: skin, lit annunciators, the pressed key
// and the display.
type Compositor struct {
	Layout *skin.Layout
	// SkinImage holds the skin artwork; nil draws a flat face instead.
	SkinImage image.Image
	Display   *Display
	// Smooth scales with bilinear filtering instead of nearest neighbour.
	Smooth bool
	// Shortcuts, when set, are drawn over the skin.
	Shortcuts []Shortcut
}

func NewCompositor(layout *skin.Layout, skinImage image.Image) *Compositor {
	return &Compositor{
		Layout:    layout,
		SkinImage: skinImage,
		Display:   NewDisplay(layout),
	}
}

func (c *Compositor) scaler() draw.Scaler {
	if c.Smooth {
		return draw.ApproxBiLinear
	}

	return draw.NearestNeighbor
}

// Compose draws the skin at its natural size.
func (c *Compositor) Compose() *image.RGBA {
	s := c.Layout.Skin()
	dst := image.NewRGBA(image.Rect(0, 0, s.Base.Width, s.Base.Height))

	c.drawBase(dst, s)

	ann := c.Layout.Annunciators()
	for i, a := range s.Annunciators {
		if ann[i] && a.Defined {
			c.drawFromSkin(dst, a.Display, a.Source, s.Display.Foreground)
		}
	}

	active := c.Layout.ActiveKey()
	if active >= 0 && active < len(s.Keys) {
		k := s.Keys[active]
		c.drawFromSkin(dst, k.Display, k.Source, colorOutline)
	}

	c.scaler().Scale(dst, c.Layout.DisplayRect().ImageRect(), c.Display.Image(), c.Display.Image().Bounds(), draw.Src, nil)

	if active >= model.SoftKeyLast && active <= model.SoftKeyFirst {
		if r, ok := c.Layout.KeyRect(active); ok {
			inv := c.Display.invertedSoftKey(-1 - active)
			c.scaler().Scale(dst, r.ImageRect(), inv, inv.Bounds(), draw.Src, nil)
		}
	}

	if c.Shortcuts != nil {
		DrawShortcuts(dst, c.Shortcuts)
	}

	return dst
}

// Render draws the skin into a view of the given size through a transform.
func (c *Compositor) Render(view geometry.Size, t geometry.Transform) *image.RGBA {
	src := c.Compose()
	dst := image.NewRGBA(image.Rect(0, 0, view.Width, view.Height))

	b := src.Bounds()
	target := image.Rect(
		t.Offset.X, t.Offset.Y,
		t.Offset.X+int(float64(b.Dx())*t.Scale.X), t.Offset.Y+int(float64(b.Dy())*t.Scale.Y))

	c.scaler().Scale(dst, target, src, b, draw.Src, nil)

	return dst
}

func (c *Compositor) drawBase(dst *image.RGBA, s *model.Skin) {
	if c.SkinImage != nil {
		draw.Draw(dst, dst.Bounds(), c.SkinImage, image.Pt(s.Base.X, s.Base.Y), draw.Src)

		return
	}

	face, err := Face(s)
	if err != nil {
		slog.Warn("Could not draw skin face", "error", err)
		draw.Draw(dst, dst.Bounds(), image.NewUniform(colorFace), image.Point{}, draw.Src)

		return
	}

	draw.Draw(dst, dst.Bounds(), face, image.Point{}, draw.Src)
}

// drawFromSkin copies the alternate artwork at src into r. Without artwork r is filled
// with fallback.
func (c *Compositor) drawFromSkin(dst *image.RGBA, r model.Rect, src model.Point, fallback color.RGBA) {
	if c.SkinImage == nil {
		draw.Draw(dst, r.ImageRect(), image.NewUniform(fallback), image.Point{}, draw.Src)

		return
	}

	draw.Draw(dst, r.ImageRect(), c.SkinImage, image.Pt(src.X, src.Y), draw.Src)
}
