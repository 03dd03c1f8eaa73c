// FILE: eslogger/src/internal/color/styler.go
package color

import (
	"strconv"
	"strings"
	"unicode"
)

const esc = "\x1b["

// rainbowColors cycles red, yellow, green, blue, magenta.
var rainbowColors = []string{"red", "yellow", "green", "blue", "magenta"}

// Styler produces strings embedding escape directives from a Theme.
// The zero value uses DefaultTheme.
type Styler struct {
	theme Theme
	bg    bool
}

// NewStyler creates a styler over the given theme. A nil theme selects DefaultTheme.
func NewStyler(theme Theme) Styler {
	return Styler{theme: theme}
}

// On returns a copy that targets the background range on every wrap it
// performs. The receiver is unaffected.
func (s Styler) On() Styler {
	s.bg = true
	return s
}

// Color wraps str with the named style. Empty input and unknown names pass through.
func (s Styler) Color(str, name string) string {
	if str == "" {
		return str
	}
	w, ok := s.lookup(name)
	if !ok {
		return str
	}
	return s.wrap(str, w)
}

func (s Styler) Bold(str string) string      { return s.Color(str, "bold") }
func (s Styler) Italic(str string) string    { return s.Color(str, "italic") }
func (s Styler) Underline(str string) string { return s.Color(str, "underline") }
func (s Styler) Inverse(str string) string   { return s.Color(str, "inverse") }
func (s Styler) White(str string) string     { return s.Color(str, "white") }
func (s Styler) Grey(str string) string      { return s.Color(str, "grey") }
func (s Styler) Black(str string) string     { return s.Color(str, "black") }
func (s Styler) Blue(str string) string      { return s.Color(str, "blue") }
func (s Styler) Cyan(str string) string      { return s.Color(str, "cyan") }
func (s Styler) Green(str string) string     { return s.Color(str, "green") }
func (s Styler) Magenta(str string) string   { return s.Color(str, "magenta") }
func (s Styler) Red(str string) string       { return s.Color(str, "red") }
func (s Styler) Yellow(str string) string    { return s.Color(str, "yellow") }

// Reset prefixes str with the reset directives. The prefix is emitted even for
// empty input.
func (s Styler) Reset(str string) string {
	w, ok := s.lookup("reset")
	if !ok {
		return str
	}
	return Styler{theme: s.theme}.wrap("", w) + str
}

// Zebra inverts every other rune, starting with the first.
func (s Styler) Zebra(str string) string {
	return Sequence(str, func(_ string, i int, r rune) string {
		if i%2 == 0 {
			return s.Color(string(r), "inverse")
		}
		return string(r)
	})
}

// Rainbow colors each non-space rune, cycling through rainbowColors.
func (s Styler) Rainbow(str string) string {
	return Sequence(str, func(_ string, i int, r rune) string {
		if unicode.IsSpace(r) {
			return string(r)
		}
		return s.Color(string(r), rainbowColors[(i+1)%len(rainbowColors)])
	})
}

// Sequence applies fn to every rune of str and concatenates the results.
// i is the rune index, not the byte offset.
func Sequence(str string, fn func(str string, i int, r rune) string) string {
	if str == "" {
		return str
	}

	var sb strings.Builder
	i := 0
	for _, r := range str {
		sb.WriteString(fn(str, i, r))
		i++
	}
	return sb.String()
}

func (s Styler) lookup(name string) (Wrap, bool) {
	theme := s.theme
	if theme == nil {
		theme = DefaultTheme
	}
	return theme.Lookup(name)
}

func (s Styler) wrap(str string, w Wrap) string {
	start, end := int(w.Start), int(w.End)
	if s.bg && start >= 30 && start <= 37 {
		start += 10
		end += 10
	}

	var sb strings.Builder
	sb.Grow(len(str) + 12)
	sb.WriteString(esc)
	sb.WriteString(strconv.Itoa(start))
	sb.WriteByte('m')
	sb.WriteString(str)
	sb.WriteString(esc)
	sb.WriteString(strconv.Itoa(end))
	sb.WriteByte('m')
	return sb.String()
}
