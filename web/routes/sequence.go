package routes

import (
	"log/slog"
	"net/http"

	"github.com/dasdy/calcskin/model"
	cs "github.com/dasdy/calcskin/web/components"
)

const maxConnections = 5

// BuildSequenceRenderContext builds the detail page of one key: every other key is
// coloured by how often it was pressed right before or after it.
func (s *ServerHandler) BuildSequenceRenderContext(pairs []model.KeyPair, region int) cs.RenderContext {
	sk := s.Layout.Skin()
	items := InitEmptyItems(sk)
	code := sk.Keys[region].Code
	maxVal := 0

	connections := make([]cs.Connection, 0, maxConnections)

	for _, pair := range pairs {
		other := pair.Next
		if other == code {
			other = pair.Prev
		}

		otherRegion, ok := regionForCode(sk, other)
		if !ok {
			slog.Debug("Code has no skin key", "code", other)

			continue
		}

		items[otherRegion].Count += pair.Count

		if maxVal < items[otherRegion].Count {
			maxVal = items[otherRegion].Count
		}

		if len(connections) < maxConnections && otherRegion != region {
			connections = append(connections, cs.Connection{
				FromRegion: region,
				ToRegion:   otherRegion,
				PressCount: pair.Count,
			})
		}
	}

	items[region].Highlight = true

	return cs.RenderContext{
		Skin:            sk,
		Items:           items,
		MaxVal:          maxVal,
		HighlightRegion: region,
		Connections:     connections,
		Page:            cs.PageTypeSequence,
	}
}

// KeyHandle handles requests to the key detail page.
func (s *ServerHandler) KeyHandle(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegion(r, s.Layout.Skin())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	slog.Info("Handling key page request", "region", region)

	var pairs []model.KeyPair
	if s.SequenceTracker != nil {
		pairs = s.SequenceTracker.GatherPairs(s.Layout.Skin().Keys[region].Code)
	}

	renderContext := s.BuildSequenceRenderContext(pairs, region)
	_ = SafeRenderTemplate(cs.HeatMap(&renderContext), w)
}
