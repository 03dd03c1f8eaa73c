// FILE: eslogger/src/internal/ansi/console.go
package ansi

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Console holds the live terminal attributes the interpreter mutates.
// Implementations are not required to be safe for concurrent use; the
// Interpreter serializes access.
type Console interface {
	Foreground() Color
	Background() Color
	SetForeground(c Color)
	SetBackground(c Color)
}

// StateConsole records attributes without producing output.
type StateConsole struct {
	fg Color
	bg Color
}

// NewStateConsole creates a console with the given initial attributes.
func NewStateConsole(fg, bg Color) *StateConsole {
	return &StateConsole{fg: fg, bg: bg}
}

func (c *StateConsole) Foreground() Color     { return c.fg }
func (c *StateConsole) Background() Color     { return c.bg }
func (c *StateConsole) SetForeground(v Color) { c.fg = v }
func (c *StateConsole) SetBackground(v Color) { c.bg = v }

// ANSIConsole records attributes and re-emits every change as an SGR
// sequence on the terminal.
type ANSIConsole struct {
	StateConsole
	out io.Writer
}

// NewANSIConsole creates a console writing SGR sequences to out. Both
// attributes start at Default.
func NewANSIConsole(out io.Writer) *ANSIConsole {
	return &ANSIConsole{
		StateConsole: StateConsole{fg: Default, bg: Default},
		out:          out,
	}
}

func (c *ANSIConsole) SetForeground(v Color) {
	c.fg = v
	c.emit(v.sgr())
}

func (c *ANSIConsole) SetBackground(v Color) {
	c.bg = v
	c.emit(v.sgr() + 10)
}

func (c *ANSIConsole) emit(code int) {
	// Write errors are ignored, styling is best effort
	_, _ = io.WriteString(c.out, "\x1b["+strconv.Itoa(code)+"m")
}

// Mode selects how NewConsole decides between ANSI output and state only.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways, ModeNever:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown color mode: %s", s)
	}
}

// NewConsole returns an ANSIConsole when out is a terminal (or mode is
// always), otherwise a StateConsole starting at Default.
func NewConsole(out io.Writer, mode Mode) Console {
	switch mode {
	case ModeAlways:
		return NewANSIConsole(out)
	case ModeNever:
		return NewStateConsole(Default, Default)
	}
	if IsTerminal(out) {
		return NewANSIConsole(out)
	}
	return NewStateConsole(Default, Default)
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
