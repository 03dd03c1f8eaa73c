// FILE: eslogger/src/internal/ansi/color.go
package ansi

// Color is a console color attribute.
type Color int8

const (
	// Default is the terminal's own color, used when the real value is unknown
	Default Color = iota - 1
	Black
	DarkRed
	DarkGreen
	DarkYellow
	DarkBlue
	DarkMagenta
	DarkCyan
	Gray
	DarkGray
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = [...]string{
	"black", "dark_red", "dark_green", "dark_yellow", "dark_blue", "dark_magenta", "dark_cyan", "gray",
	"dark_gray", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
}

func (c Color) String() string {
	if c == Default {
		return "default"
	}
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// colorTable maps directive offsets to colors. Entries 8-15 are used while bold
// is active. Index 8 is Black, not DarkGray.
var colorTable = [16]Color{
	Black,
	DarkRed,
	DarkGreen,
	DarkYellow,
	DarkBlue,
	DarkMagenta,
	DarkCyan,
	Gray,

	Black,
	Red,
	Green,
	Yellow,
	Blue,
	Magenta,
	Cyan,
	White,
}

// sgr returns the SGR parameter selecting c as foreground. Add 10 for background.
func (c Color) sgr() int {
	switch {
	case c == Default:
		return 39
	case c >= Black && c <= Gray:
		return 30 + int(c)
	case c >= DarkGray && c <= White:
		return 90 + int(c-DarkGray)
	default:
		return 39
	}
}
