package skin_test

import (
	"strings"
	"testing"

	"github.com/dasdy/calcskin/layout"
	"github.com/dasdy/calcskin/model"
	"github.com/dasdy/calcskin/skin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSkin = `skin: 0,0,320,480
display: 10,10,2.0,2.0,000000,ffffff
key: 1 10,400,50,50 10,400,50,50 0,0
key: 28 70,400,50,50 72,402,46,46 400,402
key: 13,41 130,400,50,50 130,400,50,50 460,400
annunciator: 1 10,0,20,8 330,0
annunciator: 2 40,0,20,8 360,0
annunciator: 7 200,2,30,6 520,2
macro: 38 "ALPHA"
macro: 39 "PGM.FCN" 'PRGM'
macro: 40 "TOP.FCN" "CUSTOM"
macro: 41 28 13
macro: 48 12
macro: 48 13
`

// Skin files only hold physical keys in numeric macros. References between macros come
// from keymaps and from skins assembled in code, so these are added after parsing.
var referenceMacros = []model.MacroBinding{
	{Code: 42, Keys: []byte{41, 12, 41}},
	{Code: 43, Keys: []byte{12, 38, 13}},
	{Code: 44, Keys: []byte{45}},
	{Code: 45, Keys: []byte{44}},
	{Code: 46, Keys: []byte{12, 99, 13}},
	{Code: 47, Keys: []byte{47}},
}

func loadTestSkin(t *testing.T) *model.Skin {
	t.Helper()

	s, err := layout.ParseSkin(strings.NewReader(testSkin))
	require.NoError(t, err)

	s.Macros = append(s.Macros, referenceMacros...)

	return s
}

func loadTestLayout(t *testing.T) *skin.Layout {
	t.Helper()

	return skin.New(loadTestSkin(t), nil)
}

func TestFindKey(t *testing.T) {
	testCases := []struct {
		name          string
		menuActive    bool
		point         model.Point
		expectedIndex int
		expectedCode  int
	}{
		{"hits the first key", false, model.Point{X: 30, Y: 420}, 0, 1},
		{"misses everything", false, model.Point{X: 500, Y: 500}, model.NoKey, 0},
		{"edge is exclusive", false, model.Point{X: 60, Y: 420}, model.NoKey, 0},
		{"third key primary code", false, model.Point{X: 131, Y: 449}, 2, 13},
		// Display spans x 10..272, soft key strip y 28..42.
		{"first soft key", true, model.Point{X: 10, Y: 28}, -2, 1},
		{"second soft key", true, model.Point{X: 10 + 44, Y: 30}, -3, 2},
		{"last soft key", true, model.Point{X: 271, Y: 41}, -7, 6},
		{"soft keys ignored without menu", false, model.Point{X: 10, Y: 28}, model.NoKey, 0},
		{"above the soft key strip", true, model.Point{X: 10, Y: 27}, model.NoKey, 0},
		{"below the display", true, model.Point{X: 10, Y: 42}, model.NoKey, 0},
		{"right of the display", true, model.Point{X: 272, Y: 30}, model.NoKey, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := loadTestLayout(t)

			index, code := l.FindKey(tc.menuActive, tc.point)

			assert.Equal(t, tc.expectedIndex, index)
			assert.Equal(t, tc.expectedCode, code)
		})
	}

	t.Run("uses shifted code while shift is lit", func(t *testing.T) {
		l := loadTestLayout(t)

		updates := model.AllUnchanged()
		updates[model.AnnShift] = model.AnnOn
		l.UpdateAnnunciators(updates)

		index, code := l.FindKey(false, model.Point{X: 140, Y: 410})
		assert.Equal(t, 2, index)
		assert.Equal(t, 41, code)
	})

	t.Run("repeated calls agree", func(t *testing.T) {
		l := loadTestLayout(t)

		for y := 390; y < 460; y += 3 {
			for x := 0; x < 200; x += 3 {
				p := model.Point{X: x, Y: y}
				i1, c1 := l.FindKey(false, p)
				i2, c2 := l.FindKey(false, p)

				require.Equal(t, i1, i2)
				require.Equal(t, c1, c2)
			}
		}
	})
}

func TestFindSkinKey(t *testing.T) {
	l := loadTestLayout(t)

	assert.Equal(t, 1, l.FindSkinKey(28, false))
	assert.Equal(t, 2, l.FindSkinKey(13, false))
	assert.Equal(t, 2, l.FindSkinKey(41, true))
	assert.Equal(t, 2, l.FindSkinKey(41, false), "falls back to a key with the code on the other plane")
	assert.Equal(t, model.NoKey, l.FindSkinKey(30, false))
}

func TestInMenuArea(t *testing.T) {
	l := loadTestLayout(t)

	assert.Equal(t, skin.MenuLeft, l.InMenuArea(model.Point{X: 20, Y: 12}))
	assert.Equal(t, skin.MenuRight, l.InMenuArea(model.Point{X: 200, Y: 12}))
	assert.Equal(t, skin.MenuNone, l.InMenuArea(model.Point{X: 20, Y: 30}))
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		name      string
		code      int
		alphaMenu bool
		expected  model.Action
	}{
		{
			"physical key",
			12, false,
			model.Action{Kind: model.ActionKey, Code: 12},
		},
		{
			"alpha character",
			model.AlphaKeyBase + 'A', false,
			model.Action{Kind: model.ActionKey, Code: model.AlphaKeyBase + 'A'},
		},
		{
			"command",
			38, false,
			model.Action{Kind: model.ActionCommand, Command: "ALPHA"},
		},
		{
			"alternate command ignored outside alpha menu",
			39, false,
			model.Action{Kind: model.ActionCommand, Command: "PGM.FCN"},
		},
		{
			"alternate text command in alpha menu",
			39, true,
			model.Action{Kind: model.ActionCommand, Command: "PRGM", IsText: true},
		},
		{
			"alternate command in alpha menu",
			40, true,
			model.Action{Kind: model.ActionCommand, Command: "CUSTOM"},
		},
		{
			"shifted key macro",
			41, false,
			model.Action{Kind: model.ActionMacro, Keys: []byte{28, 13}, SingleKey: true},
		},
		{
			"nested references",
			42, false,
			model.Action{Kind: model.ActionMacro, Keys: []byte{28, 13, 12, 28, 13}},
		},
		{
			"reference to a command stops expansion",
			43, false,
			model.Action{Kind: model.ActionCommand, Command: "ALPHA"},
		},
		{
			"dangling reference is dropped",
			46, false,
			model.Action{Kind: model.ActionMacro, Keys: []byte{12, 13}},
		},
		{
			"first binding wins",
			48, false,
			model.Action{Kind: model.ActionMacro, Keys: []byte{12}, SingleKey: true},
		},
		{
			"unbound macro code",
			99, false,
			model.Action{Kind: model.ActionNone, Code: 99},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := loadTestLayout(t)

			assert.Equal(t, tc.expected, l.Resolve(tc.code, tc.alphaMenu))
		})
	}
}

func TestExpand(t *testing.T) {
	t.Run("physical keys are unchanged", func(t *testing.T) {
		l := loadTestLayout(t)

		keys := []byte{1, 37, 28, 13, 5}
		action, err := l.Expand(keys, false)

		require.NoError(t, err)
		assert.Equal(t, model.ActionMacro, action.Kind)
		assert.Equal(t, keys, action.Keys)
	})

	t.Run("cycle is reported, not followed", func(t *testing.T) {
		l := loadTestLayout(t)

		action, err := l.Expand([]byte{12, 44, 13}, false)

		require.ErrorIs(t, err, skin.ErrUnresolvedMacro)
		assert.Equal(t, []byte{12, 13}, action.Keys)
	})

	t.Run("self reference is reported", func(t *testing.T) {
		l := loadTestLayout(t)

		action := l.Resolve(47, false)

		assert.Equal(t, model.ActionMacro, action.Kind)
		assert.Empty(t, action.Keys)
	})

	t.Run("dangling reference is reported", func(t *testing.T) {
		l := loadTestLayout(t)

		_, err := l.Expand([]byte{99}, false)

		require.ErrorIs(t, err, skin.ErrUnresolvedMacro)
	})

	t.Run("output is bounded", func(t *testing.T) {
		s := loadTestSkin(t)

		// Each macro doubles the next one; fully expanded, 60 would be 2048 keys long.
		for code := 60; code < 70; code++ {
			next := byte(code + 1)
			s.Macros = append(s.Macros, model.MacroBinding{Code: code, Keys: []byte{next, next}})
		}

		s.Macros = append(s.Macros, model.MacroBinding{Code: 70, Keys: []byte{12, 12}})

		action, _ := skin.New(s, nil).Expand([]byte{60}, false)
		assert.Len(t, action.Keys, skin.MaxExpandedLength)
	})

	t.Run("depth is bounded", func(t *testing.T) {
		s := loadTestSkin(t)

		for code := 100; code < 130; code++ {
			s.Macros = append(s.Macros, model.MacroBinding{Code: code, Keys: []byte{12, byte(code + 1)}})
		}

		action, err := skin.New(s, nil).Expand([]byte{100}, false)
		require.ErrorIs(t, err, skin.ErrUnresolvedMacro)
		assert.NotEmpty(t, action.Keys)
	})
}

func TestUpdateAnnunciators(t *testing.T) {
	t.Run("flips only requested annunciators", func(t *testing.T) {
		l := loadTestLayout(t)

		updates := model.AllUnchanged()
		updates[model.AnnUpDown] = model.AnnOn

		r, ok := l.UpdateAnnunciators(updates)
		require.True(t, ok)
		assert.Equal(t, model.Rect{X: 10, Y: 0, Width: 20, Height: 8}, r)
		assert.Equal(t, model.AnnunciatorState{true}, l.Annunciators())

		_, ok = l.UpdateAnnunciators(updates)
		assert.False(t, ok, "already on")
	})

	t.Run("unions changed rects", func(t *testing.T) {
		l := loadTestLayout(t)

		updates := model.AllUnchanged()
		updates[model.AnnShift] = model.AnnOn
		updates[model.AnnRad] = model.AnnOn

		r, ok := l.UpdateAnnunciators(updates)
		require.True(t, ok)
		assert.Equal(t, model.RectFromCorners(40, 0, 230, 8), r)

		updates[model.AnnRad] = model.AnnOff
		updates[model.AnnShift] = model.AnnUnchanged

		r, ok = l.UpdateAnnunciators(updates)
		require.True(t, ok)
		assert.Equal(t, model.Rect{X: 200, Y: 2, Width: 30, Height: 6}, r)
		assert.Equal(t, model.AnnunciatorState{false, true}, l.Annunciators())
	})

	t.Run("state survives a reload", func(t *testing.T) {
		l := loadTestLayout(t)

		updates := model.AllUnchanged()
		updates[model.AnnShift] = model.AnnOn
		l.UpdateAnnunciators(updates)

		reloaded := skin.New(l.Skin(), l.AnnunciatorState())
		assert.True(t, reloaded.Shifted())
	})
}

func TestSetActiveKey(t *testing.T) {
	t.Run("press and release a physical key", func(t *testing.T) {
		l := loadTestLayout(t)

		r, ok := l.SetActiveKey(1)
		require.True(t, ok)
		assert.Equal(t, model.Rect{X: 72, Y: 402, Width: 46, Height: 46}, r)
		assert.Equal(t, 1, l.ActiveKey())

		r, ok = l.SetActiveKey(model.NoKey)
		require.True(t, ok)
		assert.Equal(t, model.Rect{X: 72, Y: 402, Width: 46, Height: 46}, r)
	})

	t.Run("moving between keys unions both", func(t *testing.T) {
		l := loadTestLayout(t)

		l.SetActiveKey(0)
		r, ok := l.SetActiveKey(2)
		require.True(t, ok)
		assert.Equal(t, model.RectFromCorners(10, 400, 180, 450), r)
	})

	t.Run("soft key rect", func(t *testing.T) {
		l := loadTestLayout(t)

		r, ok := l.SetActiveKey(-3)
		require.True(t, ok)
		// x = 1*22*2 + 10 = 54, y = 9*2 + 10 = 28
		assert.Equal(t, model.RectFromCorners(54, 28, 96, 42), r)
	})

	t.Run("nothing to repaint", func(t *testing.T) {
		l := loadTestLayout(t)

		_, ok := l.SetActiveKey(model.NoKey)
		assert.False(t, ok)

		_, ok = l.SetActiveKey(42)
		assert.False(t, ok)
	})
}

func TestDisplayRegion(t *testing.T) {
	l := loadTestLayout(t)

	assert.Equal(t, model.Rect{X: 10, Y: 10, Width: 262, Height: 32}, l.DisplayRect())
	assert.Equal(t, model.Rect{X: 12, Y: 14, Width: 4, Height: 4}, l.DisplayRegion(1, 2, 2, 2))
}

func TestUpdateUndrawnAnnunciator(t *testing.T) {
	l := loadTestLayout(t)

	updates := model.AllUnchanged()
	updates[model.AnnBattery] = model.AnnOn

	_, ok := l.UpdateAnnunciators(updates)
	assert.False(t, ok)
	assert.True(t, l.Annunciators()[model.AnnBattery])
}

func BenchmarkFindKey(b *testing.B) {
	s, err := layout.ParseSkin(strings.NewReader(testSkin))
	require.NoError(b, err)

	l := skin.New(s, nil)
	p := model.Point{X: 150, Y: 420}

	for range b.N {
		benchIndex, _ = l.FindKey(false, p)
	}
}

var benchIndex int
