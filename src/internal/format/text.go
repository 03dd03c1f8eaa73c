// FILE: eslogger/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"eslogger/src/internal/color"
	"eslogger/src/internal/core"

	"github.com/lixenwraith/log"
)

// DefaultConsoleTemplate renders: green time, colored level tag, payload.
const DefaultConsoleTemplate = `{{Green (FmtTime .Timestamp)}}{{LevelColor .Level (printf " %s " .Level)}}{{Reset ""}} {{.Text}}`

// DefaultTimestampFormat is hours, minutes, seconds and tenths
const DefaultTimestampFormat = "15:04:05.0"

// TextFormatter renders console lines with embedded color directives using a
// template.
type TextFormatter struct {
	template        *template.Template
	timestampFormat string
	styler          color.Styler
	logger          *log.Logger
}

// NewTextFormatter creates a console formatter. Empty arguments select the
// defaults.
func NewTextFormatter(tmpl, timestampFormat string, styler color.Styler, logger *log.Logger) (*TextFormatter, error) {
	if tmpl == "" {
		tmpl = DefaultConsoleTemplate
	}
	if timestampFormat == "" {
		timestampFormat = DefaultTimestampFormat
	}

	f := &TextFormatter{
		timestampFormat: timestampFormat,
		styler:          styler,
		logger:          logger,
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.timestampFormat)
		},
		"LevelColor": func(level string, s string) string {
			return f.styler.Color(s, LevelColor(level))
		},
		"Color":     f.styler.Color,
		"Green":     f.styler.Green,
		"Cyan":      f.styler.Cyan,
		"Yellow":    f.styler.Yellow,
		"Red":       f.styler.Red,
		"Grey":      f.styler.Grey,
		"Bold":      f.styler.Bold,
		"Reset":     f.styler.Reset,
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	parsed, err := template.New("line").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = parsed
	return f, nil
}

// LevelColor returns the theme name used for a level tag.
func LevelColor(level string) string {
	switch level {
	case "INFO":
		return "cyan"
	case "WARN":
		return "yellow"
	case "ERROR", "FATAL":
		return "red"
	default:
		return "white"
	}
}

// Format renders one console line, newline terminated.
func (f *TextFormatter) Format(level core.Level, ts time.Time, payload core.Payload) []byte {
	var text string
	if payload != nil {
		text = payload.Text()
	}

	data := map[string]any{
		"Timestamp": ts,
		"Level":     level.String(),
		"Text":      text,
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("%s %s %s\n", ts.Format(f.timestampFormat), level, text)
		return []byte(fallback)
	}

	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}
	return result
}

// FormatError renders the echo line written after ERROR and FATAL entries.
func (f *TextFormatter) FormatError(err error) []byte {
	if err == nil {
		return nil
	}
	return []byte(f.styler.Grey(fmt.Sprintf("%+v", err)) + "\n")
}

// Name returns the formatter name
func (f *TextFormatter) Name() string {
	return "txt"
}
