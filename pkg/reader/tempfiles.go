package reader

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
)

// TempFiles names the per-page files handed to external viewers. Names are
// unique per page number only, so two sessions must not share a directory.
type TempFiles struct {
	dir string
}

func NewTempFiles(dir string) *TempFiles {
	return &TempFiles{dir: dir}
}

func (t *TempFiles) Path(page int) string {
	return filepath.Join(t.dir, fmt.Sprintf("temp_page_%d.png", page))
}

// Save writes img as PNG for the given page number.
func (t *TempFiles) Save(page int, img image.Image) (string, error) {
	if t.dir != "" {
		if err := os.MkdirAll(t.dir, 0755); err != nil {
			return "", err
		}
	}
	path := t.Path(page)
	if err := imaging.Save(img, path); err != nil {
		return "", err
	}
	return path, nil
}

// Cleanup removes the files of pages 1..count. Files that were never
// written are skipped.
func (t *TempFiles) Cleanup(count int) error {
	var errs error
	for n := 1; n <= count; n++ {
		if err := os.Remove(t.Path(n)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
