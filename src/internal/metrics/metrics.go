// FILE: eslogger/src/internal/metrics/metrics.go
package metrics

import (
	"errors"
	"fmt"

	"eslogger/src/internal/buffer"
	"eslogger/src/internal/delivery"
	"eslogger/src/internal/filter"
	"eslogger/src/internal/sink"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eslogger"

// Sources supplies the statistics exported as metrics. Delivery and Bulk
// report false until a connection exists.
type Sources struct {
	Queue    func() buffer.Stats
	Delivery func() (delivery.Stats, bool)
	Bulk     func() (sink.SinkStats, bool)
	Console  func() sink.SinkStats
	Filter   func() filter.Stats
}

// Register adds the logger collectors to reg. Collectors read the sources
// at scrape time.
func Register(reg prometheus.Registerer, src Sources) error {
	if reg == nil {
		return fmt.Errorf("metrics registerer cannot be nil")
	}
	if src.Queue == nil {
		return fmt.Errorf("queue stats source is required")
	}

	for _, c := range collectors(src) {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

func collectors(src Sources) []prometheus.Collector {
	loopStat := func(read func(delivery.Stats) float64) func() float64 {
		return func() float64 {
			if src.Delivery == nil {
				return 0
			}
			stats, ok := src.Delivery()
			if !ok {
				return 0
			}
			return read(stats)
		}
	}

	bulkDetail := func(key string) func() float64 {
		return func() float64 {
			if src.Bulk == nil {
				return 0
			}
			stats, ok := src.Bulk()
			if !ok {
				return 0
			}
			return float64(stats.DetailUint(key))
		}
	}

	cs := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "connected",
			Help:      "1 once the buffer accepts entries for delivery",
		}, func() float64 {
			if src.Queue().Connected {
				return 1
			}
			return 0
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "pending_entries",
			Help:      "Entries waiting in the buffer",
		}, func() float64 { return float64(src.Queue().Pending) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "enqueued_total",
			Help:      "Entries accepted by the buffer",
		}, func() float64 { return float64(src.Queue().TotalEnqueued) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "buffer",
			Name:      "dropped_total",
			Help:      "Entries discarded while console-only",
		}, func() float64 { return float64(src.Queue().TotalDropped) }),

		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "batches_total",
			Help:      "Bulk batches handed to the sink",
		}, loopStat(func(s delivery.Stats) float64 { return float64(s.TotalBatches) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "entries_total",
			Help:      "Entries included in submitted batches",
		}, loopStat(func(s delivery.Stats) float64 { return float64(s.TotalEntries) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "failed_batches_total",
			Help:      "Batches the sink reported as failed",
		}, loopStat(func(s delivery.Stats) float64 { return float64(s.FailedBatches) })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "encode_failures_total",
			Help:      "Entries skipped because they could not be encoded",
		}, loopStat(func(s delivery.Stats) float64 { return float64(s.EncodeFailures) })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "inflight_batches",
			Help:      "Submissions awaiting a sink response",
		}, loopStat(func(s delivery.Stats) float64 { return float64(s.InFlight) })),

		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "bytes_total",
			Help:      "Request body bytes sent to the bulk endpoint",
		}, bulkDetail("total_bytes")),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "last_status",
			Help:      "HTTP status of the most recent bulk response",
		}, bulkDetail("last_status")),
	}

	if src.Console != nil {
		cs = append(cs,
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "lines_total",
				Help:      "Lines rendered to the console",
			}, func() float64 { return float64(src.Console().TotalProcessed) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "console",
				Name:      "write_errors_total",
				Help:      "Console writes that failed",
			}, func() float64 { return float64(src.Console().DetailUint("write_errors")) }),
		)
	}

	if src.Filter != nil {
		cs = append(cs,
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "filter",
				Name:      "dropped_total",
				Help:      "Entries rendered to the console but not shipped",
			}, func() float64 {
				stats := src.Filter()
				return float64(stats.TotalProcessed - stats.TotalPassed)
			}),
		)
	}

	return cs
}
