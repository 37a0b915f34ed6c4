package cli

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/tsawler/gridscan/tables"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp"}

// dirImages serves page rasters from a directory of files named
// page-<n>.<ext>. It holds no state and is safe for concurrent use.
type dirImages struct {
	dir string
}

func (d dirImages) PageImage(page int) (image.Image, error) {
	for _, ext := range imageExtensions {
		path := filepath.Join(d.dir, fmt.Sprintf("page-%d%s", page, ext))
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("page %d: %w", page, tables.ErrNoImage)
}
