package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dasdy/calcskin/model"
)

const DefaultSkinName = "default"

//go:embed data/default.layout
var defaultSkinData []byte

//go:embed data/keymap.txt
var defaultKeymapData []byte

// DefaultSkin returns the built-in skin. It panics if the embedded description does not
// parse, which tests guard against.
func DefaultSkin() *model.Skin {
	skin, err := ParseSkin(bytes.NewReader(defaultSkinData))
	if err != nil {
		panic(fmt.Sprintf("built-in skin does not parse: %s", err))
	}

	return skin
}

func DefaultKeymap() model.Keymap {
	keymap, err := ParseKeymap(bytes.NewReader(defaultKeymapData))
	if err != nil {
		panic(fmt.Sprintf("built-in keymap does not parse: %s", err))
	}

	return keymap
}

// DefaultKeymapText is the text of the built-in keymap, used to seed a user keymap file.
func DefaultKeymapText() []byte {
	return bytes.Clone(defaultKeymapData)
}

// LoadSkin parses the layout file of the named skin.
func LoadSkin(name string) (*model.Skin, error) {
	layoutPath, _ := SkinPaths(name)

	file, err := OpenPath(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSkin, err)
	}
	defer file.Close()

	skin, err := ParseSkin(file)
	if err != nil {
		return nil, fmt.Errorf("could not parse skin %s: %w", layoutPath, err)
	}

	return skin, nil
}

// LoadSkinOrDefault loads the named skin and falls back to the built-in one if it
// cannot be loaded. An empty name selects the built-in skin.
func LoadSkinOrDefault(name string) *model.Skin {
	if name == "" || strings.EqualFold(name, DefaultSkinName) {
		return DefaultSkin()
	}

	skin, err := LoadSkin(name)
	if err != nil {
		slog.Warn("Falling back to built-in skin", "skin", filepath.Base(name), "error", err)

		return DefaultSkin()
	}

	return skin
}

// LoadKeymap reads a keymap file. A missing file yields the built-in keymap.
func LoadKeymap(path string) (model.Keymap, error) {
	if path == "" {
		return DefaultKeymap(), nil
	}

	file, err := OpenPath(path)
	if err != nil {
		slog.Warn("Using built-in keymap", "path", path, "error", err)

		return DefaultKeymap(), nil
	}
	defer file.Close()

	keymap, err := ParseKeymap(file)
	if err != nil {
		return nil, fmt.Errorf("could not parse keymap %s: %w", path, err)
	}

	return keymap, nil
}
