// FILE: eslogger/src/eslog/options.go
package eslog

import (
	"io"
	"time"

	"eslogger/src/internal/config"
	"eslogger/src/internal/sink"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus"
)

// SinkFactory builds the bulk sink used by Connect. cfg already carries the
// URL passed to Connect.
type SinkFactory func(cfg *config.ElasticConfig, logger *log.Logger) (BulkSink, error)

// Option customizes a Logger.
type Option func(*Logger)

// WithOutput replaces the console target from the configuration.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.output = w
	}
}

// WithDiagnostics supplies the logger used for the Logger's own
// diagnostics instead of one built from the logging configuration.
func WithDiagnostics(logger *log.Logger) Option {
	return func(l *Logger) {
		l.diag = logger
	}
}

// WithSinkFactory replaces the Elasticsearch sink.
func WithSinkFactory(f SinkFactory) Option {
	return func(l *Logger) {
		l.sinkFactory = f
	}
}

// WithRegisterer exports logger statistics as Prometheus metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(l *Logger) {
		l.registerer = reg
	}
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

func elasticSink(cfg *config.ElasticConfig, logger *log.Logger) (BulkSink, error) {
	return sink.NewElastic(cfg, logger)
}
