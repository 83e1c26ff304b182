package label

import (
	"strings"
	"testing"
)

func newFitter(t *testing.T) *TextFitter {
	t.Helper()
	fonts, err := NewFontProvider("")
	if err != nil {
		t.Fatalf("font provider: %v", err)
	}
	return NewTextFitter(fonts, nil)
}

func TestFitShortTextUsesLargestSize(t *testing.T) {
	f := newFitter(t)
	block, err := f.Fit("Заказ", 1000, 200, 3)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if block.FontSize != defaultFontSizes[0] {
		t.Errorf("font size = %v, want largest %v", block.FontSize, defaultFontSizes[0])
	}
	if len(block.Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(block.Lines))
	}
	if block.Fallback {
		t.Error("short text should not need the fallback")
	}
}

func TestFitLongTextShrinks(t *testing.T) {
	f := newFitter(t)
	long := strings.Repeat("Чехол для телефона красный ", 4)
	block, err := f.Fit(long, 600, 150, 3)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if block.FontSize >= defaultFontSizes[0] {
		t.Errorf("font size = %v, expected smaller than %v", block.FontSize, defaultFontSizes[0])
	}
	if got := block.Height(); got > 150 {
		t.Errorf("block height %v exceeds the 150 limit", got)
	}
	if len(block.Lines) > 3 {
		t.Errorf("lines = %d, want at most 3", len(block.Lines))
	}
}

func TestFitNeverFails(t *testing.T) {
	f := newFitter(t)
	hopeless := strings.Repeat("очень длинное название товара ", 30)
	block, err := f.Fit(hopeless, 200, 40, 2)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !block.Fallback {
		t.Error("expected fallback for text that cannot fit")
	}
	if block.FontSize != defaultFontSizes[len(defaultFontSizes)-1] {
		t.Errorf("fallback font size = %v, want smallest %v", block.FontSize, defaultFontSizes[len(defaultFontSizes)-1])
	}
	if len(block.Lines) > 2 {
		t.Errorf("fallback lines = %d, want at most 2", len(block.Lines))
	}
}

func TestFitEmptyText(t *testing.T) {
	f := newFitter(t)
	block, err := f.Fit("", 500, 100, 3)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(block.Lines) != 1 || block.Lines[0].Text != "" {
		t.Errorf("empty text block = %+v", block.Lines)
	}
}

func TestFitLinesStayWithinWidth(t *testing.T) {
	f := newFitter(t)
	block, err := f.Fit("Заказ 3 товара: чехол x2, стекло, наушники", 400, 300, 5)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	face, err := f.fonts.Face(block.FontSize)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	budget := 400 - float64(safetyMargin)
	for _, line := range block.Lines {
		if w := measure(face, line.Text); w > budget {
			t.Errorf("line %q width %v exceeds budget %v", line.Text, w, budget)
		}
		if line.X < 0 {
			t.Errorf("line %q centered at negative x", line.Text)
		}
	}
}

func TestTruncateWordKeepsMinimumRunes(t *testing.T) {
	f := newFitter(t)
	face, err := f.fonts.Face(20)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	got := truncateWord("супердлинноеслово", face, 30)
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("truncated word %q lacks ellipsis", got)
	}
	runes := []rune(strings.TrimSuffix(got, ellipsis))
	if len(runes) < 3 {
		t.Errorf("kept %d runes, want at least 3", len(runes))
	}
}
