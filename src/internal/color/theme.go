// FILE: eslogger/src/internal/color/theme.go
package color

// Wrap holds the directive parameters that open and close a style.
type Wrap struct {
	Start uint8
	End   uint8
}

// Theme maps a semantic style name to its directive parameters.
type Theme map[string]Wrap

// DefaultTheme is the built-in style table.
var DefaultTheme = Theme{
	"bold":      {1, 22},
	"italic":    {3, 23},
	"underline": {4, 24},
	"inverse":   {7, 27},

	"reset": {39, 49},

	"white": {37, 39},
	"grey":  {90, 39},
	"black": {30, 39},

	"blue":    {34, 39},
	"cyan":    {36, 39},
	"green":   {32, 39},
	"magenta": {35, 39},
	"red":     {31, 39},
	"yellow":  {33, 39},
}

// Lookup returns the wrap registered under name.
func (t Theme) Lookup(name string) (Wrap, bool) {
	w, ok := t[name]
	return w, ok
}
