// FILE: eslogger/src/internal/core/payload.go
package core

// Payload is what a caller hands to a logging call: either a Msg or Fields.
type Payload interface {
	// Text is the console rendering of the payload
	Text() string
	// Fields are merged at the top level of the entry
	Fields() []Field
}

// Msg is a plain message stored in the "message" field.
type Msg string

func (m Msg) Text() string { return string(m) }

func (m Msg) Fields() []Field {
	return []Field{String(FieldMessage, string(m))}
}

// Fields is an ordered set of caller supplied fields.
type Fields []Field

func (f Fields) Text() string { return formatFields(f) }

func (f Fields) Fields() []Field { return f }
