package product

import "strings"

// typeEntry maps a name keyword to a display glyph. Ordered so more
// specific keywords win over generic ones.
type typeEntry struct {
	keyword string
	emoji   string
}

var typeGlyphs = []typeEntry{
	{"чехол", "📱"}, {"case", "📱"},
	{"защитн", "🛡️"},
	{"стекло", "🪟"}, {"glass", "🪟"},
	{"пленка", "🎞️"},
	{"игрушк", "🧸"}, {"toy", "🧸"},
	{"кукла", "👸"},
	{"конструктор", "🧱"},
	{"пазл", "🧩"}, {"puzzle", "🧩"},
	{"футболк", "👕"}, {"t-shirt", "👕"},
	{"платье", "👗"},
	{"куртк", "🧥"},
	{"кроссовк", "👟"}, {"sneakers", "👟"},
	{"наушник", "🎧"}, {"headphone", "🎧"},
	{"зарядк", "🔌"}, {"кабель", "🔌"}, {"cable", "🔌"},
	{"аккумулятор", "🔋"}, {"battery", "🔋"},
	{"лампа", "💡"}, {"lamp", "💡"},
	{"свеч", "🕯️"}, {"candle", "🕯️"},
	{"книга", "📚"}, {"book", "📚"},
	{"крем", "🧴"},
	{"мыло", "🧼"},
	{"чашк", "☕"}, {"cup", "☕"},
	{"нож", "🔪"}, {"knife", "🔪"},
	{"машинк", "🚗"}, {"car", "🚗"},
}

var colorGlyphs = map[string]string{
	"красный":      "🔴",
	"синий":        "🔵",
	"голубой":      "🔵",
	"зеленый":      "🟢",
	"желтый":       "🟡",
	"оранжевый":    "🟠",
	"фиолетовый":   "🟣",
	"фуксия":       "🟣",
	"розовый":      "🩷",
	"коричневый":   "🟤",
	"черный":       "⚫",
	"белый":        "⚪",
	"серебряный":   "⚪",
	"серый":        "🔘",
	"золотой":      "🟨",
	"радужный":     "🌈",
	"разноцветный": "🌈",
}

// TypeEmoji picks a glyph for a product by scanning its name for known
// keywords. Unknown products get the generic package glyph.
func TypeEmoji(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range typeGlyphs {
		if strings.Contains(lower, entry.keyword) {
			return entry.emoji
		}
	}
	return "📦"
}

// ColorEmoji maps a canonical color word (as returned by DetectColor) to
// its glyph. Unknown colors yield an empty string.
func ColorEmoji(color string) string {
	return colorGlyphs[color]
}
