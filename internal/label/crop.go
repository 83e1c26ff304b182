package label

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	// cropMargin is kept on each side of detected content.
	cropMargin = 10
	// brightnessThreshold: a sampled pixel whose RGB average falls below
	// this is content, not background.
	brightnessThreshold = 250
)

// CropMargins trims uniform blank margins from the left and right of a
// composite. Rows are sampled sparsely (every height/20 rows) per column;
// the first content column from each side, padded by cropMargin, bounds
// the crop window. When the window already spans the full width within a
// cropMargin tolerance the input is returned unchanged, which also makes
// the operation idempotent.
func CropMargins(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return img
	}

	stride := height / 20
	if stride < 1 {
		stride = 1
	}

	columnHasContent := func(x int) bool {
		for y := 0; y < height; y += stride {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			avg := (r + g + b) / 3 >> 8
			if avg < brightnessThreshold {
				return true
			}
		}
		return false
	}

	left := 0
	for x := 0; x < width; x++ {
		if columnHasContent(x) {
			left = x - cropMargin
			if left < 0 {
				left = 0
			}
			break
		}
	}

	right := width
	for x := width - 1; x >= 0; x-- {
		if columnHasContent(x) {
			right = x + 1 + cropMargin
			if right > width {
				right = width
			}
			break
		}
	}

	if left == 0 && right >= width-cropMargin {
		return img
	}
	if right <= left {
		return img
	}

	return imaging.Crop(img, image.Rect(bounds.Min.X+left, bounds.Min.Y, bounds.Min.X+right, bounds.Max.Y))
}
