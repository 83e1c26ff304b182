package label

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
)

// ComposeOptions control the layout of the final composite.
type ComposeOptions struct {
	TextBandHeight  int    // vertical space reserved for the annotation
	BarcodePadding  int    // gap between stacked barcodes
	AnnotationLines int    // max wrapped lines for the annotation
	QRPayload       string // when set, a QR code is appended below the barcodes
	QRSize          int    // QR edge length in px
}

// DefaultComposeOptions matches the geometry vendor labels are printed at.
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		TextBandHeight:  200,
		BarcodePadding:  20,
		AnnotationLines: 4,
		QRSize:          240,
	}
}

// Composer stacks a rasterized label, an annotation band and barcode
// symbols into a single composite ready for a thermal printer.
type Composer struct {
	fitter *TextFitter
}

func NewComposer(fitter *TextFitter) *Composer {
	return &Composer{fitter: fitter}
}

// Compose builds the composite. The canvas width is the label width
// clamped to MaxCanvasWidth; the label is pasted at the top-left,
// annotation text is centered in its band below, and each barcode is
// centered with BarcodePadding between successive items. The background
// is solid white. No I/O happens here.
func (c *Composer) Compose(rasterLabel image.Image, annotation string, barcodes []image.Image, opts ComposeOptions) (image.Image, error) {
	labelW := rasterLabel.Bounds().Dx()
	labelH := rasterLabel.Bounds().Dy()

	width := labelW
	if width > MaxCanvasWidth {
		width = MaxCanvasWidth
	}

	block, err := c.fitter.Fit(annotation, float64(width), float64(opts.TextBandHeight), opts.AnnotationLines)
	if err != nil {
		return nil, err
	}

	var qrImg image.Image
	if opts.QRPayload != "" {
		qr, err := qrcode.New(opts.QRPayload, qrcode.Medium)
		if err != nil {
			return nil, newError(KindEncoding, "encode qr payload: %w", err)
		}
		size := opts.QRSize
		if size <= 0 {
			size = DefaultComposeOptions().QRSize
		}
		qrImg = qr.Image(size)
	}

	height := labelH + opts.TextBandHeight
	for _, bc := range barcodes {
		height += bc.Bounds().Dy() + opts.BarcodePadding
	}
	if qrImg != nil {
		height += qrImg.Bounds().Dy() + opts.BarcodePadding
	}

	ctx := gg.NewContext(width, height)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)

	ctx.DrawImage(rasterLabel, 0, 0)

	if err := c.drawBlock(ctx, block, float64(labelH)); err != nil {
		return nil, err
	}

	y := labelH + opts.TextBandHeight
	for _, bc := range barcodes {
		x := (width - bc.Bounds().Dx()) / 2
		ctx.DrawImage(bc, x, y)
		y += bc.Bounds().Dy() + opts.BarcodePadding
	}
	if qrImg != nil {
		x := (width - qrImg.Bounds().Dx()) / 2
		ctx.DrawImage(qrImg, x, y)
	}

	return ctx.Image(), nil
}

// drawBlock renders a fitted text block with its precomputed centered
// offsets. Baselines stack at FontSize intervals with no extra leading.
func (c *Composer) drawBlock(ctx *gg.Context, block *TextBlock, top float64) error {
	face, err := c.fitter.fonts.Face(block.FontSize)
	if err != nil {
		return err
	}
	ctx.SetFontFace(face)

	for i, line := range block.Lines {
		baseline := top + float64(i+1)*block.FontSize
		ctx.DrawString(line.Text, line.X, baseline)
	}
	return nil
}
