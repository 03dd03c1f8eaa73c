// FILE: eslogger/src/internal/core/errinfo.go
package core

import (
	"errors"
	"fmt"
)

// ErrorField captures err as the "error" sub-object: its dynamic type, its
// message and the messages of the wrapped chain. A nil error yields an
// empty group.
func ErrorField(err error) Field {
	if err == nil {
		return Group(FieldError)
	}

	fields := []Field{
		String("type", fmt.Sprintf("%T", err)),
		String("message", err.Error()),
	}

	var causes []Field
	for i, cause := 0, errors.Unwrap(err); cause != nil; i, cause = i+1, errors.Unwrap(cause) {
		causes = append(causes, String(fmt.Sprintf("%d", i), cause.Error()))
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for i, cause := range joined.Unwrap() {
			causes = append(causes, String(fmt.Sprintf("%d", i), cause.Error()))
		}
	}
	if len(causes) > 0 {
		fields = append(fields, Group("causes", causes...))
	}

	return Group(FieldError, fields...)
}
