package components

//go:generate go tool templ generate

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/render"
)

// HeatMapSVG draws the skin with every key coloured by its count.
func HeatMapSVG(c *RenderContext) (string, error) {
	if c.Skin == nil {
		return "", fmt.Errorf("no skin to draw")
	}

	fill := func(i int) color.RGBA {
		if i < len(c.Items) && c.Items[i].Highlight {
			return color.RGBA{255, 255, 255, 255}
		}

		if i < len(c.Items) {
			return HeatColor(c.Items[i].Count, c.MaxVal)
		}

		return HeatColor(0, 0)
	}

	label := func(i int) string {
		if i < len(c.Items) && c.Items[i].Count > 0 {
			return itoa(c.Items[i].Count)
		}

		return ""
	}

	var sb strings.Builder

	if err := render.WriteFaceSVG(&sb, c.Skin, fill, label); err != nil {
		return "", err
	}

	svg := strings.TrimSuffix(sb.String(), "</svg>")

	var lines strings.Builder

	for _, conn := range c.Connections {
		from, okFrom := keyCenter(c.Skin, conn.FromRegion)
		to, okTo := keyCenter(c.Skin, conn.ToRegion)

		if !okFrom || !okTo {
			continue
		}

		width := 1 + 4*float64(conn.PressCount)/float64(max(c.MaxVal, 1))
		fmt.Fprintf(&lines, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#ffcc00" stroke-width="%.1f" stroke-linecap="round"/>`,
			from.X, from.Y, to.X, to.Y, width)
	}

	return svg + lines.String() + "</svg>", nil
}

func keyCenter(s *model.Skin, region int) (model.Point, bool) {
	if region < 0 || region >= len(s.Keys) {
		return model.Point{}, false
	}

	r := s.Keys[region].Display

	return model.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}, true
}

// skinSVG embeds the heatmap drawing as raw markup.
func skinSVG(c *RenderContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		svg, err := HeatMapSVG(c)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, svg)

		return err
	})
}

type sourceCount struct {
	Source model.EventSource
	Count  int
}

// sourceCounts lists the recorded sources in a fixed order.
func sourceCounts(sources map[model.EventSource]int) []sourceCount {
	var res []sourceCount

	for _, src := range []model.EventSource{model.SourceTouch, model.SourceSoftKey, model.SourceKeyboard} {
		if n, ok := sources[src]; ok {
			res = append(res, sourceCount{Source: src, Count: n})
		}
	}

	return res
}
