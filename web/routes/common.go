package routes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dasdy/calcskin/db"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	cs "github.com/dasdy/calcskin/web/components"
)

// SequenceTracker reports which keys were pressed next to a key code.
type SequenceTracker interface {
	GatherPairs(code int) []model.KeyPair
}

// SourceTracker reports keystroke totals per input source.
type SourceTracker interface {
	Sources() map[model.EventSource]int
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage db.Storage
	// Layout is shown live, including the pressed key and annunciators.
	Layout          *skin.Layout
	SkinImage       image.Image
	Keymap          model.Keymap
	SequenceTracker SequenceTracker
	SourceTracker   SourceTracker
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// KeyLabel names a skin key by its code, with the shifted code when it has one.
func KeyLabel(k model.KeyRegion) string {
	if k.ShiftedCode != 0 && k.ShiftedCode != k.Code {
		return strconv.Itoa(k.Code) + "/" + strconv.Itoa(k.ShiftedCode)
	}

	return strconv.Itoa(k.Code)
}

// InitEmptyItems returns a zero-count item for every key of the skin.
func InitEmptyItems(s *model.Skin) []cs.Item {
	items := make([]cs.Item, len(s.Keys))

	for i, k := range s.Keys {
		items[i] = cs.Item{Region: i, Code: k.Code, Label: KeyLabel(k)}
	}

	return items
}

// regionForCode finds the skin key that sends code, either directly or shifted.
func regionForCode(s *model.Skin, code int) (int, bool) {
	for i, k := range s.Keys {
		if k.Code == code || k.ShiftedCode == code {
			return i, true
		}
	}

	return model.NoKey, false
}

func parseRegion(r *http.Request, s *model.Skin) (int, error) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		return 0, fmt.Errorf("invalid key index: %w", err)
	}

	if index < 0 || index >= len(s.Keys) {
		return 0, fmt.Errorf("key index %d out of range", index)
	}

	return index, nil
}
