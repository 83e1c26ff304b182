package label

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"testing"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	fonts, err := NewFontProvider("")
	if err != nil {
		t.Fatalf("font provider: %v", err)
	}
	return NewComposer(NewTextFitter(fonts, nil))
}

func whiteCanvas(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestComposeStacksSections(t *testing.T) {
	c := newComposer(t)
	opts := DefaultComposeOptions()

	bc, err := RenderBarcode("4601234567890", DefaultBarcodeOptions())
	if err != nil {
		t.Fatalf("RenderBarcode: %v", err)
	}
	lbl := whiteCanvas(900, 600)

	out, err := c.Compose(lbl, "Заказ 1 товар: чехол", []image.Image{bc}, opts)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	wantHeight := 600 + opts.TextBandHeight + bc.Bounds().Dy() + opts.BarcodePadding
	if got := out.Bounds().Dy(); got != wantHeight {
		t.Errorf("height = %d, want %d", got, wantHeight)
	}
	if got := out.Bounds().Dx(); got != 900 {
		t.Errorf("width = %d, want label width 900", got)
	}
}

func TestComposeCapsWidth(t *testing.T) {
	c := newComposer(t)
	lbl := whiteCanvas(2000, 300)

	out, err := c.Compose(lbl, "annotation", nil, DefaultComposeOptions())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := out.Bounds().Dx(); got != MaxCanvasWidth {
		t.Errorf("width = %d, want capped at %d", got, MaxCanvasWidth)
	}
}

func TestComposeNoBarcodes(t *testing.T) {
	c := newComposer(t)
	opts := DefaultComposeOptions()
	lbl := whiteCanvas(800, 400)

	out, err := c.Compose(lbl, "Заказ: нет товаров", nil, opts)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := out.Bounds().Dy(); got != 400+opts.TextBandHeight {
		t.Errorf("height = %d, want %d", got, 400+opts.TextBandHeight)
	}
}

func TestComposeWithQR(t *testing.T) {
	c := newComposer(t)
	opts := DefaultComposeOptions()
	opts.QRPayload = "12345-0001-1"

	out, err := c.Compose(whiteCanvas(800, 400), "заказ", nil, opts)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	min := 400 + opts.TextBandHeight + opts.QRSize
	if got := out.Bounds().Dy(); got < min {
		t.Errorf("height = %d, want at least %d with QR section", got, min)
	}
}

func TestPipelineBarcodeCard(t *testing.T) {
	p, err := NewPipeline("", DefaultBarcodeOptions(), DefaultComposeOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	img, err := p.BuildBarcodeCard("4601234567890", "123456", "Чехол для телефона красный", 2)
	if err != nil {
		t.Fatalf("BuildBarcodeCard: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatal("empty card")
	}

	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("roundtrip bounds %v != %v", decoded.Bounds(), img.Bounds())
	}
}

func TestPipelineBarcodeCardDescenderRoom(t *testing.T) {
	p, err := NewPipeline("", DefaultBarcodeOptions(), DefaultComposeOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	payload, sku, name := "4601234567890", "123456", "Игрушка упругая"
	img, err := p.BuildBarcodeCard(payload, sku, name, 1)
	if err != nil {
		t.Fatalf("BuildBarcodeCard: %v", err)
	}

	bc, err := RenderBarcode(payload, DefaultBarcodeOptions())
	if err != nil {
		t.Fatalf("RenderBarcode: %v", err)
	}
	rows := []string{
		"Штрихкод: " + payload,
		"SKU: " + sku,
		name + " x1",
	}
	textHeight := 0.0
	lastSize := 0.0
	for _, row := range rows {
		block, err := p.Fitter().Fit(row, float64(bc.Bounds().Dx()), 50, 2)
		if err != nil {
			t.Fatalf("Fit: %v", err)
		}
		textHeight += block.Height()
		lastSize = block.FontSize
	}

	// The last baseline sits at barcode height + 5 + textHeight; the
	// canvas must extend past it by the descent allowance or Cyrillic
	// descenders on the bottom row get cut off.
	want := bc.Bounds().Dy() + int(textHeight) + 10 + int(lastSize*0.3)
	if got := img.Bounds().Dy(); got != want {
		t.Errorf("card height = %d, want %d (with descender headroom)", got, want)
	}
}

func TestPipelineRejectsGarbagePDF(t *testing.T) {
	p, err := NewPipeline("", DefaultBarcodeOptions(), DefaultComposeOptions())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	_, err = p.BuildLabel([]byte("not a pdf"), "annotation", nil, "")
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if !IsKind(err, KindDocument) {
		t.Errorf("error = %v, want KindDocument", err)
	}
}
