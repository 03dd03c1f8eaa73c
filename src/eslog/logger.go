// FILE: eslogger/src/eslog/logger.go
package eslog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"eslogger/src/internal/ansi"
	"eslogger/src/internal/buffer"
	"eslogger/src/internal/color"
	"eslogger/src/internal/config"
	"eslogger/src/internal/core"
	"eslogger/src/internal/delivery"
	"eslogger/src/internal/filter"
	"eslogger/src/internal/format"
	"eslogger/src/internal/metrics"
	"eslogger/src/internal/sink"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger renders entries to the console and, after Connect, queues them for
// bulk delivery. All methods are safe for concurrent use.
type Logger struct {
	cfg  *config.Config
	diag *log.Logger

	output      io.Writer
	console     *sink.Console
	filters     *filter.Chain
	queue       *buffer.Queue[*core.LogEntry]
	host        core.Host
	modules     sync.Map // file path -> module
	now         func() time.Time
	sinkFactory SinkFactory
	registerer  prometheus.Registerer

	mu      sync.Mutex
	loop    *delivery.Loop
	bulk    BulkSink
	cancel  context.CancelFunc
	stopped bool
}

// New creates a console-only logger. A nil cfg selects DefaultConfig.
func New(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l := &Logger{
		cfg:         cfg,
		queue:       buffer.New[*core.LogEntry](),
		host:        currentHost(),
		now:         time.Now,
		sinkFactory: elasticSink,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.diag == nil {
		diag, err := NewDiagnostics(&cfg.Logging)
		if err != nil {
			return nil, err
		}
		l.diag = diag
	}

	if l.output == nil {
		l.output = os.Stdout
		if cfg.Console.Target == "stderr" {
			l.output = os.Stderr
		}
	}

	mode, err := ansi.ParseMode(cfg.Console.Color)
	if err != nil {
		return nil, err
	}

	formatter, err := format.NewTextFormatter(cfg.Console.Template, cfg.Console.TimestampFormat,
		color.NewStyler(color.DefaultTheme), l.diag)
	if err != nil {
		return nil, fmt.Errorf("console template: %w", err)
	}

	l.console, err = sink.NewConsole(l.output, cfg.Console.Target, mode, formatter, l.diag)
	if err != nil {
		return nil, err
	}
	if cfg.Console.Bold {
		l.console.Interpreter().SetBold(true)
	}

	l.filters, err = filter.NewChain(cfg.Delivery.Filters, l.diag)
	if err != nil {
		return nil, fmt.Errorf("delivery filters: %w", err)
	}

	if l.registerer != nil {
		err := metrics.Register(l.registerer, metrics.Sources{
			Queue:    l.queue.GetStats,
			Delivery: l.deliveryStats,
			Bulk:     l.bulkStats,
			Console:  l.console.GetStats,
			Filter:   l.filters.GetStats,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.AutoConnect {
		if err := l.Connect(cfg.Elastic.URL); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func currentHost() core.Host {
	name, _ := os.Hostname()
	return core.Host{
		Name:    name,
		PID:     os.Getpid(),
		Process: filepath.Base(os.Args[0]),
	}
}

// Info logs at INFO.
func (l *Logger) Info(p Payload) {
	l.log(core.LevelInfo, p, nil)
}

// Warn logs at WARN.
func (l *Logger) Warn(p Payload) {
	l.log(core.LevelWarn, p, nil)
}

// Error logs at ERROR, echoing err on the console and storing it under
// "error".
func (l *Logger) Error(p Payload, err error) {
	l.log(core.LevelError, p, err)
}

// Fatal logs at FATAL, then flushes, waiting at most fatal_flush_timeout_ms.
// It does not exit the process.
func (l *Logger) Fatal(p Payload, err error) {
	l.log(core.LevelFatal, p, err)
	l.fatalFlush()
}

func (l *Logger) fatalFlush() {
	ctx := context.Background()
	if ms := l.cfg.FatalFlushTimeoutMS; ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}
	if err := l.FlushContext(ctx); err != nil {
		l.diag.Warn("msg", "Flush after fatal entry incomplete",
			"component", "eslog",
			"error", err)
	}
}

func (l *Logger) log(level core.Level, p Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.diag.Error("msg", "Recovered panic in logging call",
				"component", "eslog",
				"level", level.String(),
				"panic", r)
		}
	}()

	site := callerSite(callerDepth)
	ts := l.now()

	if werr := l.console.WriteLine(level, ts, p, err); werr != nil {
		l.diag.Debug("msg", "Console write failed",
			"component", "eslog",
			"error", werr)
	}

	module := l.module(site.File)
	if !l.filters.Apply(filter.Subject{Module: module, Level: level.String(), Text: p.Text()}) {
		return
	}

	entry := core.Record{
		Level:   level,
		Payload: p,
		Site:    site,
		Module:  module,
		Host:    l.host,
		Time:    ts,
		Err:     err,
	}.Build()
	l.queue.Enqueue(entry)
}

// module returns the shortened source path, cached per file.
func (l *Logger) module(file string) string {
	if v, ok := l.modules.Load(file); ok {
		return v.(string)
	}
	m := shortenPath(file, l.cfg.PathPrefix)
	l.modules.Store(file, m)
	return m
}

// Connect starts delivery to url, DefaultURL when empty. Entries logged
// before Connect are not delivered.
func (l *Logger) Connect(url string) error {
	return l.ConnectContext(context.Background(), url)
}

// ConnectContext is Connect with a context bounding the delivery loop's
// lifetime.
func (l *Logger) ConnectContext(ctx context.Context, url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrStopped
	}
	if l.loop != nil {
		return ErrAlreadyConnected
	}

	if url == "" {
		url = config.DefaultURL
	}
	elasticCfg := l.cfg.Elastic
	elasticCfg.URL = url

	bulk, err := l.sinkFactory(&elasticCfg, l.diag)
	if err != nil {
		return fmt.Errorf("failed to create bulk sink: %w", err)
	}

	opts := delivery.OptionsFromConfig(l.cfg.Delivery)
	opts.Clock = l.now
	loop, err := delivery.New(l.queue, bulk, opts, l.diag)
	if err != nil {
		return fmt.Errorf("failed to create delivery loop: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.queue.Connect()
	if err := loop.Start(runCtx); err != nil {
		cancel()
		return err
	}

	l.loop = loop
	l.bulk = bulk
	l.cancel = cancel

	l.diag.Info("msg", "Connected to bulk endpoint",
		"component", "eslog",
		"url", url)
	return nil
}

// Flush waits until every queued entry has been taken for delivery.
func (l *Logger) Flush() {
	if err := l.FlushContext(context.Background()); err != nil {
		l.diag.Warn("msg", "Flush interrupted", "component", "eslog", "error", err)
	}
}

// FlushContext is Flush bounded by ctx. It returns nil at once when not
// connected, and ErrStopped when delivery has ended with entries queued.
func (l *Logger) FlushContext(ctx context.Context) error {
	l.mu.Lock()
	loop := l.loop
	l.mu.Unlock()

	if loop == nil {
		return nil
	}
	if err := loop.Flush(ctx); err != nil {
		if errors.Is(err, delivery.ErrStopped) {
			return ErrStopped
		}
		return err
	}
	return nil
}

// Stop ends delivery at the loop's next idle check; queued entries are
// abandoned. Console output continues. Safe to call more than once.
func (l *Logger) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true

	if l.loop != nil {
		l.loop.Stop()
		l.cancel()
	}
}

// Done is closed when the delivery loop has exited. It is nil before
// Connect.
func (l *Logger) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loop == nil {
		return nil
	}
	return l.loop.Done()
}

// Stats returns a snapshot of the logger's counters.
func (l *Logger) Stats() Stats {
	s := Stats{
		Buffer:  l.queue.GetStats(),
		Console: l.console.GetStats(),
		Filter:  l.filters.GetStats(),
	}
	if d, ok := l.deliveryStats(); ok {
		s.Connected = true
		s.Delivery = d
	}
	if b, ok := l.bulkStats(); ok {
		s.Sink = b
	}
	return s
}

func (l *Logger) deliveryStats() (delivery.Stats, bool) {
	l.mu.Lock()
	loop := l.loop
	l.mu.Unlock()
	if loop == nil {
		return delivery.Stats{}, false
	}
	return loop.GetStats(), true
}

func (l *Logger) bulkStats() (sink.SinkStats, bool) {
	l.mu.Lock()
	bulk := l.bulk
	l.mu.Unlock()
	if bulk == nil {
		return sink.SinkStats{}, false
	}
	return bulk.GetStats(), true
}
