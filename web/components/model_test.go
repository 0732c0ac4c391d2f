package components_test

import (
	"bytes"
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/web/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkin() *model.Skin {
	return &model.Skin{
		Base: model.Rect{Width: 200, Height: 100},
		Keys: []model.KeyRegion{
			{Code: 1, Display: model.Rect{X: 10, Y: 10, Width: 40, Height: 40}},
			{Code: 13, Display: model.Rect{X: 60, Y: 10, Width: 40, Height: 40}},
		},
	}
}

func TestRenderContext_ViewBoxSize(t *testing.T) {
	tests := []struct {
		name     string
		context  components.RenderContext
		wantSize string
	}{
		{
			name:     "no skin",
			context:  components.RenderContext{},
			wantSize: "0 0 0 0",
		},
		{
			name:     "skin size",
			context:  components.RenderContext{Skin: testSkin()},
			wantSize: "0 0 200 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSize, tt.context.ViewBoxSize())
		})
	}
}

func TestHeatColor(t *testing.T) {
	tests := []struct {
		name  string
		count int
		max   int
		want  color.RGBA
	}{
		{"never pressed", 0, 10, color.RGBA{70, 70, 78, 255}},
		{"no data", 3, 0, color.RGBA{70, 70, 78, 255}},
		{"coldest", 1, 1000, color.RGBA{128, 128, 255, 255}},
		{"middle", 5, 10, color.RGBA{128, 255, 128, 255}},
		{"hottest", 10, 10, color.RGBA{255, 128, 128, 255}},
		{"clamped", 20, 10, color.RGBA{255, 128, 128, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := components.HeatColor(tt.count, tt.max)
			assert.InDelta(t, tt.want.R, got.R, 1)
			assert.InDelta(t, tt.want.G, got.G, 1)
			assert.InDelta(t, tt.want.B, got.B, 1)
		})
	}
}

func TestHeatMapSVG(t *testing.T) {
	c := &components.RenderContext{
		Skin: testSkin(),
		Items: []components.Item{
			{Region: 0, Code: 1, Label: "1", Count: 7},
			{Region: 1, Code: 13, Label: "13"},
		},
		MaxVal:      7,
		Connections: []components.Connection{{FromRegion: 0, ToRegion: 1, PressCount: 7}, {FromRegion: 0, ToRegion: 9}},
	}

	svg, err := components.HeatMapSVG(c)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, ">7</text>")
	assert.Contains(t, svg, `<line x1="30" y1="30" x2="80" y2="30"`)
	assert.Equal(t, 1, strings.Count(svg, "<line"))

	_, err = components.HeatMapSVG(&components.RenderContext{})
	assert.Error(t, err)
}

func TestHeatMap(t *testing.T) {
	c := &components.RenderContext{
		Skin: testSkin(),
		Items: []components.Item{
			{Region: 0, Code: 1, Label: "<1>", Count: 3, Highlight: true},
			{Region: 1, Code: 13, Label: "13", Count: 1},
		},
		MaxVal:          3,
		HighlightRegion: 0,
		Sources:         map[model.EventSource]int{model.SourceKeyboard: 4},
		Page:            components.PageTypeSequence,
	}

	var buf bytes.Buffer

	require.NoError(t, components.HeatMap(c).Render(context.Background(), &buf))

	page := buf.String()
	assert.Contains(t, page, "<h1>Key &lt;1&gt;</h1>")
	assert.Contains(t, page, `<a href="/">Back to usage</a>`)
	assert.Contains(t, page, `<li class="hl"><a href="/key?index=0">&lt;1&gt;</a> 3</li>`)
	assert.Contains(t, page, `<a href="/key?index=1">13</a> 1`)
	assert.Contains(t, page, "<li>keyboard: 4</li>")

	c.Page = components.PageTypeStats
	c.Total = 4
	buf.Reset()

	require.NoError(t, components.HeatMap(c).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<p>4 keystrokes</p>")
}

func TestHeatMapPageParts(t *testing.T) {
	c := &components.RenderContext{
		Skin:  testSkin(),
		Items: []components.Item{{Region: 0, Code: 1, Label: "1"}, {Region: 1, Code: 13, Label: "a&b", Count: 2}},
		Sources: map[model.EventSource]int{
			model.SourceKeyboard: 1,
			model.SourceTouch:    2,
		},
		HighlightRegion: 5,
		Page:            components.PageTypeSequence,
	}

	var buf bytes.Buffer

	require.NoError(t, components.HeatMap(c).Render(context.Background(), &buf))

	page := buf.String()
	assert.Contains(t, page, "<h1>Key usage</h1>", "highlight out of range falls back to the usage header")
	assert.Contains(t, page, `<div class="skin" data-viewbox="0 0 200 100"><svg`)
	assert.Contains(t, page, `<ul class="sources"><li>touch: 2</li><li>keyboard: 1</li></ul>`)
	assert.Contains(t, page, `<li><a href="/key?index=1">a&amp;b</a> 2</li>`)
	assert.NotContains(t, page, `class="hl"`)

	c.Sources = nil
	buf.Reset()

	require.NoError(t, components.HeatMap(c).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "sources")

	buf.Reset()
	assert.Error(t, components.HeatMap(&components.RenderContext{}).Render(context.Background(), &buf))
}
