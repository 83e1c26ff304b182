// Package label implements the raster pipeline that turns vendor PDF
// shipping labels, annotation text and Code128 payloads into composite
// images for thermal printing. Stages run sequentially; each stage owns
// its output buffer until the next stage consumes it.
package label

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Pipeline wires the stages together with a shared font provider.
type Pipeline struct {
	fitter      *TextFitter
	composer    *Composer
	barcodeOpts BarcodeOptions
	composeOpts ComposeOptions
}

// NewPipeline builds a pipeline rendering text with the font at fontPath
// (empty selects the embedded fallback).
func NewPipeline(fontPath string, barcodeOpts BarcodeOptions, composeOpts ComposeOptions) (*Pipeline, error) {
	fonts, err := NewFontProvider(fontPath)
	if err != nil {
		return nil, err
	}
	fitter := NewTextFitter(fonts, nil)
	return &Pipeline{
		fitter:      fitter,
		composer:    NewComposer(fitter),
		barcodeOpts: barcodeOpts,
		composeOpts: composeOpts,
	}, nil
}

// Fitter exposes the pipeline's text fitter for callers that render their
// own blocks.
func (p *Pipeline) Fitter() *TextFitter {
	return p.fitter
}

// BuildLabel runs the full chain: rasterize the PDF, render one barcode
// per payload, stack everything under the annotation band and trim blank
// margins. qrPayload is optional; when non-empty a QR code of it is
// appended after the barcodes.
func (p *Pipeline) BuildLabel(pdf []byte, annotation string, payloads []string, qrPayload string) (image.Image, error) {
	raster, err := RasterizeLabel(pdf)
	if err != nil {
		return nil, err
	}

	barcodes := make([]image.Image, 0, len(payloads))
	for _, payload := range payloads {
		bc, err := RenderBarcode(payload, p.barcodeOpts)
		if err != nil {
			return nil, err
		}
		barcodes = append(barcodes, bc)
	}

	opts := p.composeOpts
	opts.QRPayload = qrPayload

	composite, err := p.composer.Compose(raster, annotation, barcodes, opts)
	if err != nil {
		return nil, err
	}

	return CropMargins(composite), nil
}

// BuildBarcodeCard renders a standalone barcode with three annotation
// rows (payload, SKU, product name with quantity) for sticking on an
// individual item. Width follows the barcode, not the label canvas.
func (p *Pipeline) BuildBarcodeCard(payload, sku, name string, quantity int) (image.Image, error) {
	bc, err := RenderBarcode(payload, p.barcodeOpts)
	if err != nil {
		return nil, err
	}

	width := bc.Bounds().Dx()
	rowHeight := 50.0
	rows := []string{
		"Штрихкод: " + payload,
		"SKU: " + sku,
		fmt.Sprintf("%s x%d", name, quantity),
	}

	blocks := make([]*TextBlock, len(rows))
	for i, row := range rows {
		block, err := p.fitter.Fit(row, float64(width), rowHeight, 2)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}

	textHeight := 0.0
	for _, b := range blocks {
		textHeight += b.Height()
	}

	// Bottom headroom for the last row's descenders; baselines sit at
	// FontSize intervals, so without it glyphs like "у" and "р" clip at
	// the canvas edge.
	descent := int(blocks[len(blocks)-1].FontSize * 0.3)

	ctx := gg.NewContext(width, bc.Bounds().Dy()+int(textHeight)+10+descent)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)
	ctx.DrawImage(bc, 0, 0)

	top := float64(bc.Bounds().Dy()) + 5
	for _, block := range blocks {
		if err := p.composer.drawBlock(ctx, block, top); err != nil {
			return nil, err
		}
		top += block.Height()
	}

	return ctx.Image(), nil
}

// EncodePNG serializes an image for transmission as a document attachment.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
