// FILE: eslogger/src/internal/format/format.go
package format

import (
	"eslogger/src/internal/core"
)

// Formatter transforms a LogEntry into a byte slice.
type Formatter interface {
	// Format takes a LogEntry and returns the formatted document.
	Format(entry *core.LogEntry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}
