package label

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/disintegration/imaging"
)

// MaxCanvasWidth is the hard cap on any rendered artifact. Labels wider
// than this come out unreadable on 80mm thermal paper.
const MaxCanvasWidth = 1202

// renderDPI converts millimetre barcode options to pixels.
const renderDPI = 300.0

// BarcodeOptions control Code128 rendering. Dimensions are in millimetres,
// matching the vendor label geometry.
type BarcodeOptions struct {
	ModuleWidth  float64 // width of one module, mm
	ModuleHeight float64 // bar height, mm
	QuietZone    float64 // blank margin either side, mm
}

// DefaultBarcodeOptions matches the size printed on vendor labels.
func DefaultBarcodeOptions() BarcodeOptions {
	return BarcodeOptions{
		ModuleWidth:  0.8,
		ModuleHeight: 40,
		QuietZone:    6,
	}
}

func mmToPx(mm float64) int {
	px := int(mm * renderDPI / 25.4)
	if px < 1 {
		px = 1
	}
	return px
}

// RenderBarcode renders payload as a Code128 symbol on a white canvas.
// The symbology's own human-readable text is never drawn; callers add
// their own annotation. Output is deterministic for a given payload and
// options, and never wider than MaxCanvasWidth.
func RenderBarcode(payload string, opts BarcodeOptions) (image.Image, error) {
	if payload == "" {
		return nil, newError(KindEncoding, "empty barcode payload")
	}

	raw, err := code128.Encode(payload)
	if err != nil {
		return nil, newError(KindEncoding, "encode %q as code128: %w", payload, err)
	}

	modulePx := mmToPx(opts.ModuleWidth)
	width := raw.Bounds().Dx() * modulePx
	height := mmToPx(opts.ModuleHeight)

	scaled, err := barcode.Scale(raw, width, height)
	if err != nil {
		return nil, newError(KindEncoding, "scale barcode to %dx%d: %w", width, height, err)
	}

	quiet := mmToPx(opts.QuietZone)
	var symbol image.Image = scaled

	// Wide payloads blow past the canvas cap; shrink uniformly with a
	// high-quality filter so the modules stay scannable.
	if width+2*quiet > MaxCanvasWidth {
		targetW := MaxCanvasWidth - 2*quiet
		targetH := int(float64(height) * float64(targetW) / float64(width))
		if targetH < 1 {
			targetH = 1
		}
		symbol = imaging.Resize(symbol, targetW, targetH, imaging.Lanczos)
		width = targetW
		height = targetH
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width+2*quiet, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(quiet, 0, quiet+width, height), symbol, symbol.Bounds().Min, draw.Src)

	return canvas, nil
}
