package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

const (
	SkinLayoutExt = ".layout"
	SkinImageExt  = ".gif"
)

func GetBinaryPath() string {
	//nolint:dogsled
	_, b, _, _ := runtime.Caller(0)

	// Root folder of this project
	fp := filepath.Join(filepath.Dir(b), "..")

	return fp
}

// OpenPath opens path as given when it is absolute or exists relative to the working
// directory, and relative to the project root otherwise.
func OpenPath(path string) (*os.File, error) {
	var err error

	var file *os.File

	if filepath.IsAbs(path) {
		slog.Debug("Opening absolute path", "path", path)
		file, err = os.Open(path)
	} else {
		file, err = os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Opening path relative to project root", "path", path)
			file, err = os.Open(filepath.Join(GetBinaryPath(), path))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}

// SkinPaths returns the layout and image file names for a skin name. A name that already
// carries an extension is used as the layout path.
func SkinPaths(name string) (layoutPath, imagePath string) {
	ext := filepath.Ext(name)
	if ext == "" {
		return name + SkinLayoutExt, name + SkinImageExt
	}

	base := name[:len(name)-len(ext)]

	return name, base + SkinImageExt
}
