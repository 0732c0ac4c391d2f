package components

import "github.com/dasdy/calcskin/model"

type PageType int

const (
	PageTypeStats PageType = iota
	PageTypeSequence
)

// Item is one skin key on the heatmap.
type Item struct {
	Region    int
	Code      int
	Label     string
	Count     int
	Highlight bool
}

// Connection is a line from the highlighted key to a key pressed next to it.
type Connection struct {
	FromRegion int
	ToRegion   int
	PressCount int
}

type RenderContext struct {
	Skin *model.Skin
	// Items follow the order of Skin.Keys.
	Items           []Item
	MaxVal          int
	Total           int
	HighlightRegion int
	Connections     []Connection
	Sources         map[model.EventSource]int
	Page            PageType
}

// ViewBoxSize is the SVG view box covering the whole skin.
func (c *RenderContext) ViewBoxSize() string {
	if c.Skin == nil {
		return "0 0 0 0"
	}

	return "0 0 " + itoa(c.Skin.Base.Width) + " " + itoa(c.Skin.Base.Height)
}

func (c *RenderContext) hasHighlight() bool {
	return c.HighlightRegion >= 0 && c.HighlightRegion < len(c.Items)
}
