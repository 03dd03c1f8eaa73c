// FILE: eslogger/src/internal/delivery/loop.go
package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"eslogger/src/internal/buffer"
	"eslogger/src/internal/config"
	"eslogger/src/internal/core"
	"eslogger/src/internal/format"
	"eslogger/src/internal/sink"

	"github.com/lixenwraith/log"
)

var (
	// ErrAlreadyStarted is returned by a second Start on the same Loop.
	ErrAlreadyStarted = errors.New("delivery loop already started")

	// ErrStopped is returned by Flush once the consumer has exited with
	// entries still queued.
	ErrStopped = errors.New("delivery loop stopped")
)

// Options tunes the delivery loop.
type Options struct {
	// Maximum entries per bulk request
	BatchSize int

	// Sleep between checks of an empty buffer
	IdleInterval time.Duration

	// Poll interval of Flush
	FlushPollInterval time.Duration

	// Daily index name prefix
	IndexPrefix string

	// Optional mapping type in action lines
	DocType string

	// Clock dates the index names, time.Now when nil
	Clock func() time.Time
}

// DefaultOptions returns 100 entries per batch, 1s idle, 200ms flush poll.
func DefaultOptions() Options {
	return Options{
		BatchSize:         100,
		IdleInterval:      time.Second,
		FlushPollInterval: 200 * time.Millisecond,
		IndexPrefix:       format.DefaultIndexPrefix,
	}
}

// OptionsFromConfig converts the delivery section of the configuration.
func OptionsFromConfig(cfg config.DeliveryConfig) Options {
	return Options{
		BatchSize:         int(cfg.BatchSize),
		IdleInterval:      time.Duration(cfg.IdleIntervalMS) * time.Millisecond,
		FlushPollInterval: time.Duration(cfg.FlushPollMS) * time.Millisecond,
		IndexPrefix:       cfg.IndexPrefix,
		DocType:           cfg.DocType,
	}
}

// Loop drains a queue into a bulk sink in batches. It runs a single consumer
// goroutine; each batch is submitted from its own goroutine and its outcome
// is only counted.
type Loop struct {
	queue     *buffer.Queue[*core.LogEntry]
	sink      sink.BulkSink
	formatter *format.BulkFormatter
	opts      Options
	logger    *log.Logger
	now       func() time.Time

	started  atomic.Bool
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once

	// Statistics
	totalBatches    atomic.Uint64
	totalEntries    atomic.Uint64
	failedBatches   atomic.Uint64
	encodeFailures  atomic.Uint64
	inflight        atomic.Int64
	lastBatchSent   atomic.Value // time.Time
	lastSubmitError atomic.Value // string
}

// New creates a loop. Zero option values fall back to DefaultOptions.
func New(queue *buffer.Queue[*core.LogEntry], bulk sink.BulkSink, opts Options, logger *log.Logger) (*Loop, error) {
	if queue == nil {
		return nil, fmt.Errorf("delivery queue cannot be nil")
	}
	if bulk == nil {
		return nil, fmt.Errorf("bulk sink cannot be nil")
	}

	defaults := DefaultOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = defaults.IdleInterval
	}
	if opts.FlushPollInterval <= 0 {
		opts.FlushPollInterval = defaults.FlushPollInterval
	}
	if opts.IndexPrefix == "" {
		opts.IndexPrefix = defaults.IndexPrefix
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	l := &Loop{
		queue:     queue,
		sink:      bulk,
		formatter: format.NewBulkFormatter(opts.IndexPrefix, opts.DocType, logger),
		opts:      opts,
		logger:    logger,
		now:       opts.Clock,
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	l.lastBatchSent.Store(time.Time{})
	l.lastSubmitError.Store("")

	return l, nil
}

// Start launches the consumer goroutine. It returns once the goroutine is
// running; ctx cancellation stops the loop like Stop.
func (l *Loop) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	go l.run(ctx)

	l.logger.Info("msg", "Delivery loop started",
		"component", "delivery",
		"batch_size", l.opts.BatchSize,
		"idle_interval", l.opts.IdleInterval,
		"index_prefix", l.opts.IndexPrefix)
	return nil
}

// Stop signals the loop to exit at its next idle check. Entries still in
// the queue are abandoned. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.logger.Info("msg", "Delivery loop stopping",
			"component", "delivery",
			"pending", l.queue.Len())
	})
}

// Done is closed when the consumer goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.exited
}

// Flush blocks until the queue is observed empty, the consumer exits or ctx
// ends. Observing an empty queue means entries were dequeued, not that the
// sink accepted them.
func (l *Loop) Flush(ctx context.Context) error {
	if l.queue.IsEmpty() {
		return nil
	}

	ticker := time.NewTicker(l.opts.FlushPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if l.queue.IsEmpty() {
				return nil
			}
		case <-l.exited:
			if l.queue.IsEmpty() {
				return nil
			}
			return ErrStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitSubmissions polls until no submission is in flight or ctx ends.
func (l *Loop) WaitSubmissions(ctx context.Context) error {
	if l.inflight.Load() == 0 {
		return nil
	}

	ticker := time.NewTicker(l.opts.FlushPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if l.inflight.Load() == 0 {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.exited)

	idle := time.NewTimer(l.opts.IdleInterval)
	defer idle.Stop()

	for {
		for l.queue.IsEmpty() {
			idle.Reset(l.opts.IdleInterval)
			select {
			case <-idle.C:
			case <-l.done:
				l.logger.Info("msg", "Delivery loop stopped", "component", "delivery")
				return
			case <-ctx.Done():
				l.logger.Info("msg", "Delivery loop stopped by context",
					"component", "delivery",
					"error", ctx.Err())
				return
			}
		}

		batch := l.drain()
		if len(batch) == 0 {
			continue
		}

		index := l.formatter.IndexName(l.now())
		body, count := l.formatter.FormatBatch(index, batch)
		if dropped := len(batch) - count; dropped > 0 {
			l.encodeFailures.Add(uint64(dropped))
		}
		if count == 0 {
			continue
		}

		l.submit(context.WithoutCancel(ctx), index, body, count)
	}
}

// drain dequeues up to BatchSize entries.
func (l *Loop) drain() []*core.LogEntry {
	batch := make([]*core.LogEntry, 0, l.opts.BatchSize)
	for len(batch) < l.opts.BatchSize {
		entry, ok := l.queue.TryDequeue()
		if !ok {
			break
		}
		if entry == nil {
			continue
		}
		batch = append(batch, entry)
	}
	return batch
}

// submit hands the body to the sink on a detached goroutine.
func (l *Loop) submit(ctx context.Context, index string, body []byte, count int) {
	l.totalBatches.Add(1)
	l.totalEntries.Add(uint64(count))
	l.lastBatchSent.Store(l.now())
	l.inflight.Add(1)

	go func() {
		defer l.inflight.Add(-1)

		if err := l.sink.Bulk(ctx, index, body); err != nil {
			l.failedBatches.Add(1)
			l.lastSubmitError.Store(err.Error())
			l.logger.Debug("msg", "Bulk submission failed",
				"component", "delivery",
				"index", index,
				"entries", count,
				"error", err)
			return
		}
		l.logger.Debug("msg", "Bulk submission completed",
			"component", "delivery",
			"index", index,
			"entries", count)
	}()
}

// Stats contains statistics about the delivery loop
type Stats struct {
	Running         bool
	Pending         int
	TotalBatches    uint64
	TotalEntries    uint64
	FailedBatches   uint64
	EncodeFailures  uint64
	InFlight        int64
	LastBatchSent   time.Time
	LastSubmitError string
}

// GetStats returns the loop's statistics.
func (l *Loop) GetStats() Stats {
	lastSent, _ := l.lastBatchSent.Load().(time.Time)
	lastErr, _ := l.lastSubmitError.Load().(string)

	running := l.started.Load()
	select {
	case <-l.exited:
		running = false
	default:
	}

	return Stats{
		Running:         running,
		Pending:         l.queue.Len(),
		TotalBatches:    l.totalBatches.Load(),
		TotalEntries:    l.totalEntries.Load(),
		FailedBatches:   l.failedBatches.Load(),
		EncodeFailures:  l.encodeFailures.Load(),
		InFlight:        l.inflight.Load(),
		LastBatchSent:   lastSent,
		LastSubmitError: lastErr,
	}
}
