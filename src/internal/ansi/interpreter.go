// FILE: eslogger/src/internal/ansi/interpreter.go
package ansi

import (
	"io"
	"strconv"
	"sync"
)

// ESC starts an escape directive
const ESC = '\x1b'

type phase uint8

const (
	phaseText phase = iota
	phaseSignaled
	phaseAccumulating
)

// Interpreter forwards a byte stream to an underlying writer, translating
// embedded SGR color directives (ESC [ n m) into Console attribute changes.
// Only single numeric parameters are understood; anything else inside a
// directive is consumed without effect. Safe for concurrent use.
type Interpreter struct {
	mu sync.Mutex

	out     io.Writer
	console Console

	state   phase
	params  []byte
	pending []byte

	bold     int
	inverted bool

	defaultFg Color
	defaultBg Color
}

// NewInterpreter wraps out. The console's current colors are captured as the
// defaults restored by codes 39 and 49.
func NewInterpreter(out io.Writer, console Console) *Interpreter {
	return &Interpreter{
		out:       out,
		console:   console,
		params:    make([]byte, 0, 8),
		pending:   make([]byte, 0, 256),
		defaultFg: console.Foreground(),
		defaultBg: console.Background(),
	}
}

// WriteByte feeds a single character through the state machine.
func (in *Interpreter) WriteByte(c byte) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.step(c)
	return in.flush()
}

// Write feeds p through the state machine. It always reports len(p) consumed
// unless the underlying writer fails.
func (in *Interpreter) Write(p []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, c := range p {
		in.step(c)
	}
	if err := in.flush(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (in *Interpreter) WriteString(s string) (int, error) {
	return in.Write([]byte(s))
}

func (in *Interpreter) step(c byte) {
	switch in.state {
	case phaseText:
		if c == ESC {
			in.state = phaseSignaled
			in.params = in.params[:0]
			return
		}
		in.pending = append(in.pending, c)

	case phaseSignaled:
		if c != '[' {
			// Not a directive, give the bytes back
			in.pending = append(in.pending, ESC, c)
			in.state = phaseText
			return
		}
		in.state = phaseAccumulating

	case phaseAccumulating:
		if c != 'm' {
			in.params = append(in.params, c)
			return
		}
		in.state = phaseText
		if val, err := strconv.ParseUint(string(in.params), 10, 8); err == nil {
			in.apply(uint8(val))
		}
	}
}

func (in *Interpreter) apply(val uint8) {
	switch {
	case val >= 30 && val <= 37:
		in.flushQuiet()
		in.setFore(val - 30)
	case val == 39:
		in.flushQuiet()
		in.setDefaultFore()
	case val >= 40 && val <= 47:
		in.flushQuiet()
		in.setBack(val - 40)
	case val == 49:
		in.flushQuiet()
		in.setDefaultBack()
	case val == 1:
		in.bold++
	case val == 22:
		in.bold--
	case val == 7 || val == 27:
		in.flushQuiet()
		in.toggleInverse()
	}
}

// intensity returns the table offset for the current bold level.
func (in *Interpreter) intensity() uint8 {
	if in.bold > 0 {
		return 8
	}
	return 0
}

func (in *Interpreter) setFore(idx uint8) {
	if in.inverted {
		in.console.SetBackground(colorTable[idx])
		return
	}
	in.console.SetForeground(colorTable[idx+in.intensity()])
}

func (in *Interpreter) setBack(idx uint8) {
	if in.inverted {
		in.console.SetForeground(colorTable[idx+in.intensity()])
		return
	}
	in.console.SetBackground(colorTable[idx])
}

func (in *Interpreter) setDefaultFore() {
	if in.inverted {
		in.console.SetBackground(in.defaultFg)
		return
	}
	in.console.SetForeground(in.defaultFg)
}

func (in *Interpreter) setDefaultBack() {
	if in.inverted {
		in.console.SetForeground(in.defaultBg)
		return
	}
	in.console.SetBackground(in.defaultBg)
}

func (in *Interpreter) toggleInverse() {
	fg := in.console.Foreground()
	in.console.SetForeground(in.console.Background())
	in.console.SetBackground(fg)
	in.inverted = !in.inverted
}

// Bold reports whether bright colors are currently selected.
func (in *Interpreter) Bold() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.bold > 0
}

// SetBold raises (true) or lowers (false) the bold counter by one.
func (in *Interpreter) SetBold(on bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if on {
		in.bold++
	} else {
		in.bold--
	}
}

// Snapshot describes the interpreter's attribute state.
type Snapshot struct {
	Foreground Color
	Background Color
	Bold       int
	Inverted   bool
}

// Snapshot returns the current attribute state.
func (in *Interpreter) Snapshot() Snapshot {
	in.mu.Lock()
	defer in.mu.Unlock()
	return Snapshot{
		Foreground: in.console.Foreground(),
		Background: in.console.Background(),
		Bold:       in.bold,
		Inverted:   in.inverted,
	}
}

// flush writes buffered text. MUST be called with mutex held.
func (in *Interpreter) flush() error {
	if len(in.pending) == 0 {
		return nil
	}
	_, err := in.out.Write(in.pending)
	in.pending = in.pending[:0]
	return err
}

// flushQuiet writes buffered text ahead of an attribute change.
func (in *Interpreter) flushQuiet() {
	_ = in.flush()
}
