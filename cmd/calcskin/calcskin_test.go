package calcskin

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/dasdy/calcskin/db"
	"github.com/dasdy/calcskin/geometry"
	"github.com/dasdy/calcskin/layout"
	"github.com/dasdy/calcskin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	config := filepath.Join(t.TempDir(), "calcskin.toml")
	require.NoError(t, os.WriteFile(config, []byte("port = 3000\n"), 0o644))

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", config}, args...))

	err := rootCmd.Execute()

	return out.String(), err
}

func TestParseSize(t *testing.T) {
	size, err := parseSize("640x480")
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{Width: 640, Height: 480}, size)

	size, err = parseSize(" 12 X 34 ")
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{Width: 12, Height: 34}, size)

	for _, bad := range []string{"", "640", "0x10", "ax2", "10x-1"} {
		_, err := parseSize(bad)
		require.ErrorIs(t, err, errBadSize, bad)
	}
}

func TestCheckBuiltin(t *testing.T) {
	out, err := runCommand(t, "check")
	require.NoError(t, err)

	s := layout.DefaultSkin()
	assert.Contains(t, out, fmt.Sprintf("%d keys", len(s.Keys)))
	assert.Contains(t, out, "keymap (built-in)")
}

func TestCheckMissingSkin(t *testing.T) {
	_, err := runCommand(t, "check", filepath.Join(t.TempDir(), "nothing.layout"))
	assert.Error(t, err)
}

func TestHit(t *testing.T) {
	k := layout.DefaultSkin().Keys[0]
	x := k.Sensitive.X + k.Sensitive.Width/2
	y := k.Sensitive.Y + k.Sensitive.Height/2

	out, err := runCommand(t, "hit", "--skin", "default", "--view", "", fmt.Sprint(x), fmt.Sprint(y))
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("skin point: %d,%d", x, y))
	assert.Contains(t, out, "region: 0")

	out, err = runCommand(t, "hit", "--", "-5", "-5")
	require.NoError(t, err)
	assert.Contains(t, out, "no key")
}

func TestMatch(t *testing.T) {
	out, err := runCommand(t, "match", "--skin", "default", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "macro: [19] exact=true")

	out, err = runCommand(t, "match", "--ctrl", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "macro: [38] exact=true")

	out, err = runCommand(t, "match", "--ctrl=false", "--alpha", "z")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("reserved: code %d", model.AlphaKeyBase+'Z'))
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.png")

	_, err := runCommand(t, "render", "--skin", "default", "--shortcuts", "--view", "100x100", "-o", path)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)

	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{filepath.Join(dir, "a.sqlite"), filepath.Join(dir, "b.sqlite")}

	for i, path := range inputs {
		storage, err := db.NewStorageFromPath(path)
		require.NoError(t, err)

		for _, pressed := range []bool{true, false} {
			require.NoError(t, storage.Store(&model.KeyEvent{Code: i + 1, Region: i, Source: model.SourceTouch, Pressed: pressed}))
		}

		storage.Close()
	}

	out := filepath.Join(dir, "merged.sqlite")

	_, err := runCommand(t, "merge", "-f", inputs[0], "-f", inputs[1], "-o", out)
	require.NoError(t, err)

	merged, err := db.NewStorageFromPath(out)
	require.NoError(t, err)

	defer merged.Close()

	usage, err := merged.GatherAll()
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.KeyUsage{{Code: 1, Region: 0, Count: 1}, {Code: 2, Region: 1, Count: 1}}, usage)

	_, err = runCommand(t, "merge", "-f", inputs[0], "-o", out)
	assert.ErrorContains(t, err, "already exists")
}
