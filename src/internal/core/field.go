// FILE: eslogger/src/internal/core/field.go
package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindGroup
)

// Value is one of string, integer, float, bool or a nested ordered group.
type Value struct {
	kind  Kind
	str   string
	num   int64
	float float64
	group []Field
}

// Field is a named Value.
type Field struct {
	Key   string
	Value Value
}

func String(key, v string) Field {
	return Field{Key: key, Value: Value{kind: KindString, str: v}}
}

func Int(key string, v int64) Field {
	return Field{Key: key, Value: Value{kind: KindInt, num: v}}
}

func Float(key string, v float64) Field {
	return Field{Key: key, Value: Value{kind: KindFloat, float: v}}
}

func Bool(key string, v bool) Field {
	var n int64
	if v {
		n = 1
	}
	return Field{Key: key, Value: Value{kind: KindBool, num: n}}
}

// Group nests fields under key.
func Group(key string, fields ...Field) Field {
	return Field{Key: key, Value: Value{kind: KindGroup, group: fields}}
}

// Kind returns the value's type.
func (v Value) Kind() Kind { return v.kind }

// Any returns the value as a plain Go value; groups become map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.float
	case KindBool:
		return v.num != 0
	case KindGroup:
		m := make(map[string]any, len(v.group))
		for _, f := range v.group {
			m[f.Key] = f.Value.Any()
		}
		return m
	default:
		return nil
	}
}

// String renders the value for console output.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindGroup:
		return "{" + formatFields(v.group) + "}"
	default:
		return ""
	}
}

// MarshalJSON keeps group members in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindGroup:
		return marshalOrdered(v.group)
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.num)
	case KindFloat:
		return json.Marshal(v.float)
	case KindBool:
		return json.Marshal(v.num != 0)
	default:
		return []byte("null"), nil
	}
}

// formatFields renders fields as space separated key=value pairs, quoting
// values that contain spaces.
func formatFields(fields []Field) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Key)
		sb.WriteByte('=')
		s := f.Value.String()
		if f.Value.kind == KindString && (s == "" || strings.ContainsAny(s, " \t\n\"=")) {
			s = strconv.Quote(s)
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func marshalOrdered(fields []Field) ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}
