package label

import (
	"image"

	"github.com/disintegration/imaging"
	fitz "github.com/gen2brain/go-fitz"
)

// rasterScale renders PDFs at 4x the native 72 DPI. Higher would be
// sharper but the composite already exceeds the printer's dot pitch.
const rasterScale = 4

// RasterizeLabel renders the first page of a vendor label PDF and rotates
// it 90 degrees counter-clockwise, expanding the canvas so no corners are
// clipped. Vendor labels ship portrait; thermal printers feed landscape.
func RasterizeLabel(pdf []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, newError(KindDocument, "open label pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, newError(KindDocument, "label pdf has no pages")
	}

	img, err := doc.ImageDPI(0, 72*rasterScale)
	if err != nil {
		return nil, newError(KindDocument, "render label page: %w", err)
	}

	return imaging.Rotate90(img), nil
}
