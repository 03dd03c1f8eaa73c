// FILE: eslogger/src/internal/sink/sink.go
package sink

import (
	"context"
	"time"
)

// BulkSink accepts newline-delimited bulk bodies.
type BulkSink interface {
	// Bulk submits one body destined for index
	Bulk(ctx context.Context, index string, body []byte) error

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	TotalProcessed uint64
	ActiveRequests int64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// Helper functions for reading Details values
func toUint(v any) (uint64, bool) {
	switch val := v.(type) {
	case uint64:
		return val, true
	case int:
		return uint64(val), true
	case int64:
		return uint64(val), true
	default:
		return 0, false
	}
}

// DetailUint returns a numeric Details entry, zero when absent.
func (s SinkStats) DetailUint(key string) uint64 {
	v, _ := toUint(s.Details[key])
	return v
}
