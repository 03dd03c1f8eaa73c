// FILE: eslogger/src/cmd/eslogger/status.go
package main

import (
	"context"
	"time"

	"eslogger/src/eslog"
)

// Periodically logs delivery status
func statusReporter(ctx context.Context, l *eslog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStatus(l, "Status report")
		}
	}
}

// Logs one snapshot of the logger's counters
func logStatus(l *eslog.Logger, msg string) {
	stats := l.Stats()

	statusFields := []any{
		"msg", msg,
		"component", "status_reporter",
		"connected", stats.Connected,
		"pending", stats.Buffer.Pending,
		"enqueued", stats.Buffer.TotalEnqueued,
		"dropped", stats.Buffer.TotalDropped,
		"console_lines", stats.Console.TotalProcessed,
	}

	if stats.Filter.Filters > 0 {
		statusFields = append(statusFields,
			"filtered", stats.Filter.TotalProcessed-stats.Filter.TotalPassed)
	}

	if stats.Connected {
		statusFields = append(statusFields,
			"batches", stats.Delivery.TotalBatches,
			"entries_sent", stats.Delivery.TotalEntries,
			"failed_batches", stats.Delivery.FailedBatches,
			"in_flight", stats.Delivery.InFlight)

		if stats.Delivery.LastSubmitError != "" {
			statusFields = append(statusFields, "last_error", stats.Delivery.LastSubmitError)
		}
		if !stats.Delivery.LastBatchSent.IsZero() {
			statusFields = append(statusFields, "last_batch", stats.Delivery.LastBatchSent.Format(time.RFC3339))
		}
	}

	logger.Info(statusFields...)
}
