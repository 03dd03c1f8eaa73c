// FILE: eslogger/src/internal/core/entry.go
package core

import (
	"time"
)

// Reserved field names
const (
	FieldMessage   = "message"
	FieldLevel     = "level"
	FieldTimestamp = "timestamp"
	FieldHost      = "host"
	FieldPID       = "pid"
	FieldProcess   = "process"
	FieldModule    = "module"
	FieldFunc      = "func"
	FieldLine      = "line"
	FieldError     = "error"
)

// LogEntry is a structured log record: an ordered mapping of field names to
// values. Setting an existing key replaces its value in place.
type LogEntry struct {
	fields []Field
	index  map[string]int
}

// NewLogEntry creates an empty entry with room for n fields.
func NewLogEntry(n int) *LogEntry {
	return &LogEntry{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}
}

// Set stores f, replacing the value of an existing field with the same key.
func (e *LogEntry) Set(f Field) {
	if i, ok := e.index[f.Key]; ok {
		e.fields[i].Value = f.Value
		return
	}
	e.index[f.Key] = len(e.fields)
	e.fields = append(e.fields, f)
}

// Merge sets every field in order.
func (e *LogEntry) Merge(fields []Field) {
	for _, f := range fields {
		e.Set(f)
	}
}

// Get returns the value stored under key.
func (e *LogEntry) Get(key string) (Value, bool) {
	i, ok := e.index[key]
	if !ok {
		return Value{}, false
	}
	return e.fields[i].Value, true
}

// Keys returns the field names in order.
func (e *LogEntry) Keys() []string {
	keys := make([]string, len(e.fields))
	for i, f := range e.fields {
		keys[i] = f.Key
	}
	return keys
}

// Len returns the number of fields.
func (e *LogEntry) Len() int {
	return len(e.fields)
}

// MarshalJSON encodes the entry as a single-line JSON object in field order.
func (e *LogEntry) MarshalJSON() ([]byte, error) {
	return marshalOrdered(e.fields)
}

// Host describes the process emitting entries.
type Host struct {
	Name    string
	PID     int
	Process string
}

// Site identifies the code location of a logging call.
type Site struct {
	Function string
	File     string
	Line     int
}

// Record is everything needed to build one entry.
type Record struct {
	Level   Level
	Payload Payload
	Site    Site
	Module  string
	Host    Host
	Time    time.Time
	Err     error
}

// Build assembles the entry. Payload fields go first; system fields are set
// afterwards and win on collision.
func (r Record) Build() *LogEntry {
	var payload []Field
	if r.Payload != nil {
		payload = r.Payload.Fields()
	}

	e := NewLogEntry(len(payload) + 10)
	e.Merge(payload)

	e.Set(String(FieldHost, r.Host.Name))
	e.Set(Int(FieldPID, int64(r.Host.PID)))
	e.Set(String(FieldProcess, r.Host.Process))
	e.Set(String(FieldTimestamp, r.Time.UTC().Format(time.RFC3339Nano)))

	e.Set(String(FieldLevel, r.Level.String()))
	e.Set(String(FieldModule, r.Module))
	e.Set(String(FieldFunc, r.Site.Function))
	e.Set(Int(FieldLine, int64(r.Site.Line)))

	if r.Level.CarriesError() {
		e.Set(ErrorField(r.Err))
	}
	return e
}
