// FILE: eslogger/src/eslog/default.go
package eslog

import (
	"sync"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
)

var (
	defaultMu     sync.Mutex
	defaultLogger *Logger
)

// Default returns the process-wide logger, creating it from DefaultConfig on
// first use.
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		l, err := New(config.Defaults())
		if err != nil {
			// Fall back to unconfigured diagnostics
			l, _ = New(config.Defaults(), WithDiagnostics(log.NewLogger()))
		}
		defaultLogger = l
	}
	return defaultLogger
}

// SetDefault replaces the process-wide logger. The previous one is not
// stopped.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Info logs at INFO on the default logger.
func Info(p Payload) {
	Default().log(LevelInfo, p, nil)
}

// Warn logs at WARN on the default logger.
func Warn(p Payload) {
	Default().log(LevelWarn, p, nil)
}

// Error logs at ERROR on the default logger.
func Error(p Payload, err error) {
	Default().log(LevelError, p, err)
}

// Fatal logs at FATAL on the default logger, then flushes it.
func Fatal(p Payload, err error) {
	l := Default()
	l.log(LevelFatal, p, err)
	l.fatalFlush()
}

// Connect connects the default logger.
func Connect(url string) error {
	return Default().Connect(url)
}

// Flush flushes the default logger.
func Flush() {
	Default().Flush()
}

// Stop stops the default logger's delivery.
func Stop() {
	Default().Stop()
}
