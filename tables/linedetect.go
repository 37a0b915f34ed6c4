package tables

import (
	"image"

	"github.com/tsawler/gridscan/model"
	"golang.org/x/image/draw"
)

// DetectSegments finds horizontal and vertical ruling lines in a rendered
// page image and returns them in page coordinates. A line is a run of ink
// pixels at least image size / config.LineScale long.
func DetectSegments(img image.Image, pageWidth, pageHeight float64, config Config) (vertical, horizontal []model.Segment) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || pageWidth <= 0 || pageHeight <= 0 {
		return nil, nil
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	draw.Copy(gray, image.Point{}, img, b, draw.Src, nil)

	ink := func(x, y int) bool {
		return gray.Pix[y*gray.Stride+x] < config.InkThreshold
	}

	scale := config.LineScale
	if scale <= 0 {
		scale = DefaultConfig().LineScale
	}
	minH := int(float64(w) / scale)
	minV := int(float64(h) / scale)
	if minH < 2 {
		minH = 2
	}
	if minV < 2 {
		minV = 2
	}

	sx := pageWidth / float64(w)
	sy := pageHeight / float64(h)
	// Image rows grow downwards, page y grows upwards
	toPageY := func(row float64) float64 { return pageHeight - row*sy }

	for y := 0; y < h; y++ {
		run := 0
		for x := 0; x <= w; x++ {
			if x < w && ink(x, y) {
				run++
				continue
			}
			if run >= minH {
				py := toPageY(float64(y) + 0.5)
				horizontal = append(horizontal, model.Segment{
					X0: float64(x-run) * sx, Y0: py,
					X1: float64(x) * sx, Y1: py,
				})
			}
			run = 0
		}
	}

	for x := 0; x < w; x++ {
		run := 0
		for y := 0; y <= h; y++ {
			if y < h && ink(x, y) {
				run++
				continue
			}
			if run >= minV {
				px := (float64(x) + 0.5) * sx
				vertical = append(vertical, model.Segment{
					X0: px, Y0: toPageY(float64(y)),
					X1: px, Y1: toPageY(float64(y - run)),
				})
			}
			run = 0
		}
	}

	// Thick lines produce one run per pixel row; fold them together
	tol := sx
	if sy > tol {
		tol = sy
	}
	tol = 2*tol + config.LineTolerance
	return mergeSegments(vertical, model.OrientationVertical, tol),
		mergeSegments(horizontal, model.OrientationHorizontal, tol)
}
