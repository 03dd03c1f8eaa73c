// FILE: eslogger/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"

	"eslogger/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter encodes entries as single-line JSON documents.
type JSONFormatter struct {
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(logger *log.Logger) *JSONFormatter {
	return &JSONFormatter{logger: logger}
}

// Format encodes one entry followed by a newline.
func (f *JSONFormatter) Format(entry *core.LogEntry) ([]byte, error) {
	if entry == nil {
		return nil, fmt.Errorf("nil log entry")
	}

	result, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
