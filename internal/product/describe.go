// Package product derives display text for order line items: short
// names, detected colors and the annotation string printed on composite
// labels.
package product

import (
	"fmt"
	"strings"
	"unicode"
)

// LineItem is one product line in a posting.
type LineItem struct {
	Name     string
	SKU      string
	Quantity int
}

// colorEntry maps a name stem to a canonical color word. Stems rather
// than full words so declined Russian forms still match. Order matters:
// first match wins.
type colorEntry struct {
	stem  string
	color string
}

var colorLexicon = []colorEntry{
	{"красн", "красный"},
	{"голуб", "голубой"},
	{"син", "синий"},
	{"зелен", "зеленый"},
	{"желт", "желтый"},
	{"оранж", "оранжевый"},
	{"фиолет", "фиолетовый"},
	{"розов", "розовый"},
	{"фукси", "фуксия"},
	{"коричнев", "коричневый"},
	{"черн", "черный"},
	{"бел", "белый"},
	{"сер", "серый"},
	{"золот", "золотой"},
	{"серебр", "серебряный"},
	{"радужн", "радужный"},
	{"разноцветн", "разноцветный"},
	{"multicolor", "разноцветный"},
	{"rainbow", "радужный"},
	{"red", "красный"},
	{"blue", "синий"},
	{"green", "зеленый"},
	{"yellow", "желтый"},
	{"orange", "оранжевый"},
	{"purple", "фиолетовый"},
	{"pink", "розовый"},
	{"brown", "коричневый"},
	{"black", "черный"},
	{"white", "белый"},
	{"gray", "серый"},
	{"grey", "серый"},
	{"gold", "золотой"},
	{"silver", "серебряный"},
}

// DetectColor scans a product name for a known color stem,
// case-insensitively. The first lexicon match wins; no match yields an
// empty string.
func DetectColor(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range colorLexicon {
		if strings.Contains(lower, entry.stem) {
			return entry.color
		}
	}
	return ""
}

// stripColorWord removes the first word containing the stem of the
// detected color from the name.
func stripColorWord(name, detected string) string {
	var stem string
	for _, entry := range colorLexicon {
		if entry.color == detected {
			stem = entry.stem
			break
		}
	}
	if stem == "" {
		return name
	}

	words := strings.Fields(name)
	out := make([]string, 0, len(words))
	removed := false
	for _, w := range words {
		if !removed && strings.Contains(strings.ToLower(w), stem) {
			removed = true
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// ShortName caps a product name at max runes, keeping whole words where
// possible, with punctuation stripped. Degenerate inputs yield "Товар".
func ShortName(name string, max int) string {
	clean := stripPunct(name)
	if clean == "" {
		return "Товар"
	}
	if len([]rune(clean)) <= max {
		return clean
	}

	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(clean) {
		wl := len([]rune(word))
		extra := wl
		if count > 0 {
			extra++ // joining space
		}
		if count+extra > max {
			break
		}
		if count > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
		count += extra
	}

	if b.Len() == 0 {
		runes := []rune(clean)
		return string(runes[:max])
	}
	return b.String()
}

func stripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// displayName builds "{short} {color}" for one item. When a color is
// detected it is stripped from the name and re-appended as a separate
// word so truncation never cuts it.
func displayName(name string, withColorCap, plainCap int) string {
	color := DetectColor(name)
	if color == "" {
		return ShortName(name, plainCap)
	}

	base := strings.TrimSpace(stripColorWord(name, color))
	if base == "" {
		return color
	}
	short := ShortName(base, withColorCap)
	return short + " " + color
}

// Describe renders the annotation line for a set of line items.
//
// One item lists the short name with its color; two or three items are
// listed individually with tight name caps; more than three lists the
// first two and the count of the rest. An empty slice yields a
// placeholder rather than an error.
func Describe(items []LineItem) string {
	if len(items) == 0 {
		return "Заказ: нет товаров"
	}

	total := 0
	for _, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		total += q
	}

	switch {
	case len(items) == 1:
		return fmt.Sprintf("Заказ %d товар: %s", total, displayName(items[0].Name, 25, 30))
	case len(items) <= 3:
		return fmt.Sprintf("Заказ %d товаров: %s", total, joinItems(items))
	default:
		rest := len(items) - 2
		return fmt.Sprintf("Заказ %d товаров: %s +%d", total, joinItems(items[:2]), rest)
	}
}

func joinItems(items []LineItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		parts[i] = fmt.Sprintf("%s x%d", displayName(it.Name, 6, 8), q)
	}
	return strings.Join(parts, ", ")
}
