package routes

import (
	"log/slog"
	"net/http"

	"github.com/dasdy/calcskin/model"
	cs "github.com/dasdy/calcskin/web/components"
)

// BuildStatsRenderContext builds the render context for the usage page. Keystrokes through
// soft keys or without a skin key are counted in the total only.
func (s *ServerHandler) BuildStatsRenderContext(dbStats []model.KeyUsage) cs.RenderContext {
	sk := s.Layout.Skin()
	items := InitEmptyItems(sk)

	maxVal := 0
	total := 0

	for _, usage := range dbStats {
		total += usage.Count

		if usage.Region < 0 || usage.Region >= len(items) {
			slog.Debug("Keystroke outside of skin keys", "region", usage.Region, "code", usage.Code)

			continue
		}

		items[usage.Region].Count += usage.Count

		if maxVal < items[usage.Region].Count {
			maxVal = items[usage.Region].Count
		}
	}

	rc := cs.RenderContext{
		Skin:            sk,
		Items:           items,
		MaxVal:          maxVal,
		Total:           total,
		HighlightRegion: model.NoKey,
		Page:            cs.PageTypeStats,
	}

	if s.SourceTracker != nil {
		rc.Sources = s.SourceTracker.Sources()
	}

	return rc
}

// StatsHandle handles requests to the usage page.
func (s *ServerHandler) StatsHandle(w http.ResponseWriter, _ *http.Request) {
	slog.Info("Handling stats page request")

	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(curStats)

	_ = SafeRenderTemplate(cs.HeatMap(&renderContext), w)
}
