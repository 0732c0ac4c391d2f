package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/dasdy/calcskin/model"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	colorFace    = color.RGBA{43, 43, 48, 255}
	colorKey     = color.RGBA{70, 70, 78, 255}
	colorOutline = color.RGBA{20, 20, 22, 255}
)

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WriteFaceSVG writes a flat drawing of a skin: its base, display window and keys. fill
// picks the colour of each key by index; nil uses a neutral grey. label, when set, adds
// a caption to each key.
func WriteFaceSVG(w io.Writer, s *model.Skin, fill func(index int) color.RGBA, label func(index int) string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		s.Base.Width, s.Base.Height, s.Base.Width, s.Base.Height)
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		s.Base.Width, s.Base.Height, hexColor(colorFace))

	d := s.Display
	fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%.1f" height="%.1f" fill="%s"/>`,
		d.Location.X, d.Location.Y,
		model.DisplayWidth*d.Scale.X, model.DisplayHeight*d.Scale.Y,
		hexColor(d.Background))

	for i, k := range s.Keys {
		c := colorKey
		if fill != nil {
			c = fill(i)
		}

		r := k.Display
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" rx="4" ry="4" fill="%s" stroke="%s" stroke-width="1"/>`,
			r.X, r.Y, r.Width, r.Height, hexColor(c), hexColor(colorOutline))

		if label != nil {
			fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="11" text-anchor="middle" fill="#ffffff">%s</text>`,
				r.X+r.Width/2, r.Y+r.Height/2+4, escapeXML(label(i)))
		}
	}

	sb.WriteString(`</svg>`)

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("could not write face drawing: %w", err)
	}

	return nil
}

func escapeXML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// RasterizeSVG renders an SVG document into an image of the given size.
func RasterizeSVG(svg string, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("could not parse svg: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	icon.SetTarget(0, 0, float64(width), float64(height))

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// Face draws a skin without an image file.
func Face(s *model.Skin) (*image.RGBA, error) {
	var sb strings.Builder

	if err := WriteFaceSVG(&sb, s, nil, nil); err != nil {
		return nil, err
	}

	return RasterizeSVG(sb.String(), s.Base.Width, s.Base.Height)
}
