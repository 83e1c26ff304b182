package label

import (
	"strings"

	"golang.org/x/image/font"
)

// Default candidate sizes, largest first. Mirrors the sizes used on real
// labels: the fitter walks down until the wrapped text fits.
var defaultFontSizes = []float64{50, 45, 40, 35, 30, 25, 20, 18, 16, 14, 12}

// safetyMargin keeps wrapped lines clear of the canvas edge.
const safetyMargin = 20

const ellipsis = "..."

// Line is one wrapped line with its centered horizontal offset inside the
// requested width.
type Line struct {
	Text string
	X    float64
}

// TextBlock is the result of fitting a string into a bounding box.
type TextBlock struct {
	Text     string
	FontSize float64
	Lines    []Line
	Width    int
	// Fallback marks the best-effort path: no candidate size satisfied the
	// box, so the smallest size was used and lines were hard-capped. The
	// rendered height may exceed the requested maximum; this is accepted
	// rather than failing the artifact.
	Fallback bool
}

// Height is the total rendered height of the block. Lines are stacked with
// no extra leading.
func (b *TextBlock) Height() float64 {
	return float64(len(b.Lines)) * b.FontSize
}

// TextFitter finds the largest font size at which a string word-wraps into
// a bounding box.
type TextFitter struct {
	fonts *FontProvider
	sizes []float64
}

// NewTextFitter creates a fitter over the given provider. sizes may be nil
// to use the default descending candidate list.
func NewTextFitter(fonts *FontProvider, sizes []float64) *TextFitter {
	if len(sizes) == 0 {
		sizes = defaultFontSizes
	}
	return &TextFitter{fonts: fonts, sizes: sizes}
}

// Fit wraps text into maxWidth, trying candidate sizes largest-first, and
// accepts the first size where the line count stays within maxLines and
// lineCount*size stays within maxHeight. When nothing fits it degrades to
// the smallest candidate capped at min(maxLines, 3) lines.
func (f *TextFitter) Fit(text string, maxWidth, maxHeight float64, maxLines int) (*TextBlock, error) {
	if maxLines < 1 {
		maxLines = 1
	}

	if strings.TrimSpace(text) == "" {
		size := f.sizes[0]
		return &TextBlock{
			Text:     text,
			FontSize: size,
			Lines:    []Line{{Text: "", X: maxWidth / 2}},
			Width:    int(maxWidth),
		}, nil
	}

	budget := maxWidth - safetyMargin

	for _, size := range f.sizes {
		face, err := f.fonts.Face(size)
		if err != nil {
			return nil, err
		}

		lines := wrapWords(text, face, budget)
		if len(lines) <= maxLines && float64(len(lines))*size <= maxHeight {
			return f.block(text, size, lines, face, maxWidth, false), nil
		}
	}

	// Best effort: smallest size, hard line cap, overflow accepted.
	size := f.sizes[len(f.sizes)-1]
	face, err := f.fonts.Face(size)
	if err != nil {
		return nil, err
	}

	limit := maxLines
	if limit > 3 {
		limit = 3
	}
	lines := wrapWords(text, face, budget)
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return f.block(text, size, lines, face, maxWidth, true), nil
}

func (f *TextFitter) block(text string, size float64, lines []string, face font.Face, maxWidth float64, fallback bool) *TextBlock {
	out := make([]Line, len(lines))
	for i, line := range lines {
		w := measure(face, line)
		x := (maxWidth - w) / 2
		if x < 0 {
			x = 0
		}
		out[i] = Line{Text: line, X: x}
	}
	return &TextBlock{
		Text:     text,
		FontSize: size,
		Lines:    out,
		Width:    int(maxWidth),
		Fallback: fallback,
	}
}

// wrapWords greedily packs words into lines no wider than budget. A single
// word wider than the budget is truncated rune by rune and ellipsized.
func wrapWords(text string, face font.Face, budget float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if measure(face, candidate) <= budget {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
			current = ""
		}

		if measure(face, word) > budget {
			lines = append(lines, truncateWord(word, face, budget))
			continue
		}
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func truncateWord(word string, face font.Face, budget float64) string {
	runes := []rune(word)
	for len(runes) > 3 && measure(face, string(runes)+ellipsis) > budget {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}
