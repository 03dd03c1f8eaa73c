// FILE: eslogger/src/cmd/eslogger/demo.go
package main

import (
	"errors"

	"eslogger/src/eslog"
)

var errDemo = errors.New("demo application error")

// consoleDemo logs one entry per level as a message and as fields.
func consoleDemo() {
	eslog.Info(eslog.Msg("Test Info"))
	eslog.Warn(eslog.Msg("Test Warn"))
	eslog.Error(eslog.Msg("Test Error"), errDemo)

	eslog.Info(eslog.Fields{
		eslog.Int("number", 12345),
		eslog.String("message", "test 1"),
	})
	eslog.Warn(eslog.Fields{
		eslog.Int("number", 54321),
		eslog.String("message", "test 2"),
	})
	eslog.Error(eslog.Fields{
		eslog.Float("value", 789.12),
		eslog.String("message", "test 3"),
	}, errDemo)
}

// connectedDemo logs after delivery has started.
func connectedDemo() {
	eslog.Info(eslog.Fields{
		eslog.Int("number", 12345),
		eslog.String("message", "test info"),
	})
	eslog.Warn(eslog.Fields{
		eslog.Int("number", 54321),
		eslog.String("message", "test warning"),
	})
	eslog.Error(eslog.Fields{
		eslog.Float("value", 789.12),
		eslog.String("message", "test"),
	}, errDemo)
}
