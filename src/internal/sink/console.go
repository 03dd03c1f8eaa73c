// FILE: eslogger/src/internal/sink/console.go
package sink

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"eslogger/src/internal/ansi"
	"eslogger/src/internal/core"
	"eslogger/src/internal/format"

	"github.com/lixenwraith/log"
)

// Console renders log lines through an escape sequence interpreter.
type Console struct {
	// Line and error echo are written together
	mu sync.Mutex

	interp    *ansi.Interpreter
	formatter *format.TextFormatter
	target    string
	startTime time.Time
	logger    *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	writeErrors    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewConsole creates a console sink writing to out. target only labels the
// sink in statistics.
func NewConsole(out io.Writer, target string, mode ansi.Mode, formatter *format.TextFormatter, logger *log.Logger) (*Console, error) {
	if out == nil {
		return nil, fmt.Errorf("console output cannot be nil")
	}
	if formatter == nil {
		return nil, fmt.Errorf("console formatter cannot be nil")
	}

	c := &Console{
		interp:    ansi.NewInterpreter(out, ansi.NewConsole(out, mode)),
		formatter: formatter,
		target:    target,
		startTime: time.Now(),
		logger:    logger,
	}
	c.lastProcessed.Store(time.Time{})

	return c, nil
}

// Interpreter returns the interpreter owned by the sink.
func (c *Console) Interpreter() *ansi.Interpreter {
	return c.interp
}

// WriteLine renders one entry, followed by an error echo line when err is
// not nil.
func (c *Console) WriteLine(level core.Level, ts time.Time, payload core.Payload, err error) error {
	line := c.formatter.Format(level, ts, payload)
	echo := c.formatter.FormatError(err)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalProcessed.Add(1)
	c.lastProcessed.Store(ts)

	if _, werr := c.interp.Write(line); werr != nil {
		c.writeErrors.Add(1)
		return fmt.Errorf("console write failed: %w", werr)
	}
	if len(echo) > 0 {
		if _, werr := c.interp.Write(echo); werr != nil {
			c.writeErrors.Add(1)
			return fmt.Errorf("console write failed: %w", werr)
		}
	}
	return nil
}

// GetStats returns the sink's statistics.
func (c *Console) GetStats() SinkStats {
	lastProc, _ := c.lastProcessed.Load().(time.Time)
	state := c.interp.Snapshot()

	return SinkStats{
		Type:           "console",
		TotalProcessed: c.totalProcessed.Load(),
		StartTime:      c.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"target":       c.target,
			"write_errors": c.writeErrors.Load(),
			"foreground":   state.Foreground.String(),
			"background":   state.Background.String(),
			"bold":         state.Bold,
		},
	}
}
