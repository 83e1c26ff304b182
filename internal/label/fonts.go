package label

import (
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontProvider builds font faces at arbitrary sizes. Faces are cached per
// size because opentype face construction is not free and the fitter probes
// many candidate sizes per annotation.
type FontProvider struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontProvider loads the TTF at path. An empty or unreadable path falls
// back to the embedded Go Regular font (covers Latin and Cyrillic), so a
// missing font never aborts rendering.
func NewFontProvider(path string) (*FontProvider, error) {
	data := goregular.TTF
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			data = b
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		// The configured file is not a usable font; retry with the
		// embedded one before giving up.
		f, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, newError(KindRenderResource, "parse fallback font: %w", err)
		}
	}

	return &FontProvider{
		font:  f,
		faces: make(map[float64]font.Face),
	}, nil
}

// Face returns a face rendering at the given pixel size.
func (p *FontProvider) Face(size float64) (font.Face, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if face, ok := p.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(p.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, newError(KindRenderResource, "build %gpx face: %w", size, err)
	}

	p.faces[size] = face
	return face, nil
}
