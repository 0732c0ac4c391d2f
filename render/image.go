package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"io"
	"io/fs"
	"log/slog"

	"github.com/dasdy/calcskin/layout"
)

// LoadSkinImage decodes the artwork of a skin. A skin without an image file yields nil
// and no error, and is drawn as a flat face.
func LoadSkinImage(name string) (image.Image, error) {
	_, imagePath := layout.SkinPaths(name)

	file, err := layout.OpenPath(imagePath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Skin has no image", "path", imagePath)

		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode skin image %s: %w", imagePath, err)
	}

	return img, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}

	return nil
}
