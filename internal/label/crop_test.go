package label

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// testLabel builds a white canvas with a dark block between x0 and x1.
func testLabel(width, height, x0, x1 int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(x0, 0, x1, height), image.Black, image.Point{}, draw.Src)
	return img
}

func TestCropMarginsTrimsWhiteSides(t *testing.T) {
	img := testLabel(800, 200, 300, 500)
	cropped := CropMargins(img)

	w := cropped.Bounds().Dx()
	// Content spans 200px; 10px margin is kept on each side.
	want := 200 + 2*cropMargin
	if w != want {
		t.Errorf("cropped width = %d, want %d", w, want)
	}
	if h := cropped.Bounds().Dy(); h != 200 {
		t.Errorf("cropped height = %d, want unchanged 200", h)
	}
}

func TestCropMarginsIdempotent(t *testing.T) {
	img := testLabel(800, 200, 300, 500)
	once := CropMargins(img)
	twice := CropMargins(once)
	if once.Bounds().Dx() != twice.Bounds().Dx() {
		t.Errorf("second crop changed width: %d -> %d", once.Bounds().Dx(), twice.Bounds().Dx())
	}
}

func TestCropMarginsAllWhite(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	cropped := CropMargins(img)
	if cropped.Bounds().Dx() != 400 {
		t.Errorf("all-white image should come back unchanged, width = %d", cropped.Bounds().Dx())
	}
}

func TestCropMarginsContentAtEdges(t *testing.T) {
	img := testLabel(400, 100, 0, 400)
	cropped := CropMargins(img)
	if cropped.Bounds().Dx() != 400 {
		t.Errorf("full-width content should not be cropped, width = %d", cropped.Bounds().Dx())
	}
}

func TestCropMarginsNearWhiteIsBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{252, 252, 252, 255}), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(250, 0, 350, 100), image.Black, image.Point{}, draw.Src)

	cropped := CropMargins(img)
	want := 100 + 2*cropMargin
	if w := cropped.Bounds().Dx(); w != want {
		t.Errorf("cropped width = %d, want %d (252-gray counts as background)", w, want)
	}
}
