package routes

import (
	"bytes"
	"image"
	"log/slog"
	"net/http"

	"github.com/dasdy/calcskin/render"
	cs "github.com/dasdy/calcskin/web/components"
)

func writePNG(w http.ResponseWriter, img image.Image) {
	var buf bytes.Buffer

	if err := render.EncodePNG(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// PreviewHandle draws the skin in its current state. With ?shortcuts=1 the keyboard
// shortcuts are drawn over it.
func (s *ServerHandler) PreviewHandle(w http.ResponseWriter, r *http.Request) {
	c := render.NewCompositor(s.Layout, s.SkinImage)
	c.Smooth = r.URL.Query().Get("smooth") == "1"

	if r.URL.Query().Get("shortcuts") == "1" {
		c.Shortcuts = render.Shortcuts(s.Layout.Skin(), s.Keymap)
	}

	writePNG(w, c.Compose())
}

// HeatMapImageHandle renders the usage heatmap as a PNG.
func (s *ServerHandler) HeatMapImageHandle(w http.ResponseWriter, _ *http.Request) {
	curStats, err := s.Storage.GatherAll()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(curStats)

	svg, err := cs.HeatMapSVG(&renderContext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	sk := s.Layout.Skin()

	img, err := render.RasterizeSVG(svg, sk.Base.Width, sk.Base.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writePNG(w, img)
}
