// FILE: eslogger/src/internal/core/level.go
package core

import "fmt"

// Level is the severity of a log entry.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", uint8(l))
	}
}

// CarriesError reports whether entries at this level include an error object.
func (l Level) CarriesError() bool {
	return l >= LevelError
}
