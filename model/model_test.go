package model_test

import (
	"testing"

	"github.com/dasdy/calcskin/model"
	"github.com/stretchr/testify/assert"
)

func TestRectContains(t *testing.T) {
	r := model.Rect{X: 10, Y: 400, Width: 50, Height: 50}

	testCases := []struct {
		name     string
		point    model.Point
		expected bool
	}{
		{"top left corner", model.Point{X: 10, Y: 400}, true},
		{"inside", model.Point{X: 30, Y: 420}, true},
		{"right edge is exclusive", model.Point{X: 60, Y: 420}, false},
		{"bottom edge is exclusive", model.Point{X: 30, Y: 450}, false},
		{"left of rect", model.Point{X: 9, Y: 420}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.Contains(tc.point))
		})
	}
}

func TestRectUnion(t *testing.T) {
	t.Run("covers both rects", func(t *testing.T) {
		a := model.Rect{X: 0, Y: 0, Width: 10, Height: 10}
		b := model.Rect{X: 20, Y: 5, Width: 5, Height: 20}

		assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 25, Height: 25}, a.Union(b))
	})

	t.Run("ignores empty rects", func(t *testing.T) {
		a := model.Rect{X: 3, Y: 4, Width: 10, Height: 10}

		assert.Equal(t, a, model.Rect{}.Union(a))
		assert.Equal(t, a, a.Union(model.Rect{}))
	})
}

func TestHighlightCode(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []byte
		expected int
		single   bool
	}{
		{"single key", []byte{12}, 12, true},
		{"shifted key", []byte{model.KeyShift, 12}, 12, true},
		{"two plain keys", []byte{13, 12}, model.NoHighlightKey, false},
		{"long macro", []byte{model.KeyShift, 12, 13}, model.NoHighlightKey, false},
		{"empty", []byte{}, model.NoHighlightKey, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, model.HighlightCode(tc.keys))
			assert.Equal(t, tc.single, model.IsSingleKey(tc.keys))
		})
	}
}
