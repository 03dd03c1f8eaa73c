// FILE: eslogger/src/eslog/logger_test.go
package eslog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

var fixedTime = time.Date(2024, 3, 1, 9, 5, 7, 200_000_000, time.UTC)

// captureSink keeps every document it receives.
type captureSink struct {
	mu    sync.Mutex
	url   string
	docs  []map[string]any
	index []string
}

func (c *captureSink) Bulk(_ context.Context, index string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	for i := 1; i < len(lines); i += 2 {
		var doc map[string]any
		if err := json.Unmarshal([]byte(lines[i]), &doc); err != nil {
			return err
		}
		c.docs = append(c.docs, doc)
		c.index = append(c.index, index)
	}
	return nil
}

func (c *captureSink) GetStats() SinkStats {
	return SinkStats{Type: "capture"}
}

func (c *captureSink) documents() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]any(nil), c.docs...)
}

func (c *captureSink) factory(cfg *config.ElasticConfig, _ *log.Logger) (BulkSink, error) {
	c.mu.Lock()
	c.url = cfg.URL
	c.mu.Unlock()
	return c, nil
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Console.Color = "never"
	cfg.Delivery.IdleIntervalMS = 5
	cfg.Delivery.FlushPollMS = 5
	return cfg
}

func newTestEslog(t *testing.T, cfg *Config, out io.Writer, opts ...Option) (*Logger, *captureSink) {
	t.Helper()
	capture := &captureSink{}
	base := []Option{
		WithOutput(out),
		WithDiagnostics(newTestLogger()),
		WithSinkFactory(capture.factory),
		WithClock(func() time.Time { return fixedTime }),
	}
	l, err := New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(l.Stop)
	return l, capture
}

func connectAndFlush(t *testing.T, l *Logger, capture *captureSink, want int) []map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, l.FlushContext(ctx))
	require.Eventually(t, func() bool { return len(capture.documents()) == want }, 2*time.Second, 5*time.Millisecond)
	return capture.documents()
}

func TestNew(t *testing.T) {
	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := testConfig()
		cfg.Delivery.BatchSize = 0
		_, err := New(cfg, WithDiagnostics(newTestLogger()))
		assert.Error(t, err)
	})

	t.Run("BadTemplate", func(t *testing.T) {
		cfg := testConfig()
		cfg.Console.Template = "{{.Missing"
		_, err := New(cfg, WithDiagnostics(newTestLogger()), WithOutput(&bytes.Buffer{}))
		assert.Error(t, err)
	})

	t.Run("BoldRaisedOnce", func(t *testing.T) {
		l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{})
		assert.True(t, l.console.Interpreter().Bold())
		assert.Equal(t, 1, l.console.Interpreter().Snapshot().Bold)
	})

	t.Run("AutoConnect", func(t *testing.T) {
		cfg := testConfig()
		cfg.AutoConnect = true
		cfg.Elastic.URL = "http://search.internal:9200/"
		l, capture := newTestEslog(t, cfg, &bytes.Buffer{})
		assert.True(t, l.Stats().Connected)
		assert.Equal(t, "http://search.internal:9200/", capture.url)
	})
}

func TestLogger_Console(t *testing.T) {
	var out bytes.Buffer
	l, _ := newTestEslog(t, testConfig(), &out)

	l.Info(Msg("server started"))
	l.Warn(Fields{String("disk", "sda1"), Int("free_pct", 7)})
	l.Error(Msg("write failed"), errors.New("no space left on device"))

	expected := "09:05:07.2 INFO  server started\n" +
		"09:05:07.2 WARN  disk=sda1 free_pct=7\n" +
		"09:05:07.2 ERROR  write failed\n" +
		"no space left on device\n"
	assert.Equal(t, expected, out.String())
	assert.Equal(t, uint64(3), l.Stats().Console.TotalProcessed)
}

func TestLogger_ConsoleOnlyDropsEntries(t *testing.T) {
	l, capture := newTestEslog(t, testConfig(), &bytes.Buffer{})

	l.Info(Msg("before connect"))
	require.NoError(t, l.Connect(""))
	assert.Equal(t, config.DefaultURL, capture.url)

	l.Info(Msg("after connect"))
	docs := connectAndFlush(t, l, capture, 1)
	assert.Equal(t, "after connect", docs[0]["message"])

	stats := l.Stats()
	assert.Equal(t, uint64(1), stats.Buffer.TotalDropped)
	assert.Equal(t, uint64(1), stats.Buffer.TotalEnqueued)
}

func TestLogger_Document(t *testing.T) {
	cfg := testConfig()
	cfg.PathPrefix = "eslog"
	l, capture := newTestEslog(t, cfg, &bytes.Buffer{})
	require.NoError(t, l.Connect("http://localhost:9200/"))

	l.Info(Msg("hello"))
	docs := connectAndFlush(t, l, capture, 1)
	doc := docs[0]

	assert.Equal(t, "hello", doc["message"])
	assert.Equal(t, "INFO", doc["level"])
	assert.Equal(t, "2024-03-01T09:05:07.2Z", doc["timestamp"])
	assert.Equal(t, l.host.Name, doc["host"])
	assert.EqualValues(t, l.host.PID, doc["pid"])
	assert.Equal(t, l.host.Process, doc["process"])
	assert.Equal(t, "logger_test.go", doc["module"])
	assert.Equal(t, "TestLogger_Document", doc["func"])
	assert.NotZero(t, doc["line"])
	assert.NotContains(t, doc, "error")
	assert.Equal(t, "logger-2024-03-01", capture.index[0])
}

func TestLogger_IndexFollowsClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC) }
	l, capture := newTestEslog(t, testConfig(), &bytes.Buffer{}, WithClock(clock))
	require.NoError(t, l.Connect(""))

	l.Info(Msg("dated"))
	doc := connectAndFlush(t, l, capture, 1)[0]

	assert.Equal(t, "2020-01-02T03:04:05Z", doc["timestamp"])
	assert.Equal(t, "logger-2020-01-02", capture.index[0])
}

func TestLogger_SystemFieldsWin(t *testing.T) {
	l, capture := newTestEslog(t, testConfig(), &bytes.Buffer{})
	require.NoError(t, l.Connect(""))

	l.Warn(Fields{
		String("level", "DEBUG"),
		String("message", "custom"),
		String("host", "spoofed"),
		Bool("retry", true),
	})
	doc := connectAndFlush(t, l, capture, 1)[0]

	assert.Equal(t, "WARN", doc["level"])
	assert.Equal(t, "custom", doc["message"])
	assert.NotEqual(t, "spoofed", doc["host"])
	assert.Equal(t, true, doc["retry"])
}

func TestLogger_ErrorObject(t *testing.T) {
	l, capture := newTestEslog(t, testConfig(), &bytes.Buffer{})
	require.NoError(t, l.Connect(""))

	l.Error(Msg("read failed"), fmt.Errorf("open config: %w", io.ErrUnexpectedEOF))
	doc := connectAndFlush(t, l, capture, 1)[0]

	errObj, ok := doc["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "*fmt.wrapError", errObj["type"])
	assert.Equal(t, "open config: unexpected EOF", errObj["message"])
	assert.Equal(t, map[string]any{"0": "unexpected EOF"}, errObj["causes"])
}

func TestLogger_DeliveryFilters(t *testing.T) {
	cfg := testConfig()
	cfg.Delivery.Filters = []config.FilterConfig{
		{Type: config.FilterTypeExclude, Patterns: []string{"^\\S+ WARN "}},
		{Type: config.FilterTypeExclude, Patterns: []string{"heartbeat"}},
	}
	var out bytes.Buffer
	l, capture := newTestEslog(t, cfg, &out)
	require.NoError(t, l.Connect(""))

	l.Warn(Msg("disk almost full"))
	l.Info(Msg("heartbeat"))
	l.Info(Msg("request served"))
	docs := connectAndFlush(t, l, capture, 1)

	assert.Equal(t, "request served", docs[0]["message"])
	assert.Contains(t, out.String(), "disk almost full")
	assert.Contains(t, out.String(), "heartbeat")

	stats := l.Stats()
	assert.Equal(t, 2, stats.Filter.Filters)
	assert.Equal(t, uint64(3), stats.Filter.TotalProcessed)
	assert.Equal(t, uint64(1), stats.Filter.TotalPassed)
	assert.Equal(t, uint64(1), stats.Buffer.TotalEnqueued)
}

func TestLogger_ConnectTwice(t *testing.T) {
	l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{})
	require.NoError(t, l.Connect(""))
	assert.ErrorIs(t, l.Connect(""), ErrAlreadyConnected)
}

func TestLogger_ConnectSinkError(t *testing.T) {
	failing := func(*config.ElasticConfig, *log.Logger) (BulkSink, error) {
		return nil, errors.New("bad endpoint")
	}
	l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{}, WithSinkFactory(failing))

	err := l.Connect("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad endpoint")
	assert.False(t, l.Stats().Connected)
	assert.False(t, l.queue.Connected())
}

func TestLogger_Stop(t *testing.T) {
	l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{})
	assert.Nil(t, l.Done())
	require.NoError(t, l.Connect(""))

	l.Stop()
	l.Stop()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("delivery loop did not exit")
	}
	assert.ErrorIs(t, l.Connect(""), ErrStopped)
}

func TestLogger_Flush(t *testing.T) {
	t.Run("NotConnected", func(t *testing.T) {
		l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{})
		l.Info(Msg("console only"))
		assert.NoError(t, l.FlushContext(context.Background()))
	})

	t.Run("FatalFlushBounded", func(t *testing.T) {
		cfg := testConfig()
		cfg.FatalFlushTimeoutMS = 30
		var out bytes.Buffer
		l, capture := newTestEslog(t, cfg, &out)
		require.NoError(t, l.Connect(""))

		// Without a running consumer the queue never drains
		l.Stop()
		<-l.Done()

		start := time.Now()
		l.Fatal(Msg("shutting down"), errors.New("unrecoverable"))
		assert.Less(t, time.Since(start), time.Second)
		assert.Empty(t, capture.documents())
		assert.Contains(t, out.String(), "FATAL  shutting down\nunrecoverable\n")
	})

	t.Run("AfterStopDoesNotWait", func(t *testing.T) {
		cfg := testConfig()
		cfg.FatalFlushTimeoutMS = 0
		l, _ := newTestEslog(t, cfg, io.Discard)
		require.NoError(t, l.Connect(""))
		l.Stop()
		<-l.Done()

		for i := 0; i < 1000; i++ {
			l.Info(Msg("orphan"))
		}

		start := time.Now()
		l.Fatal(Msg("shutting down"), errors.New("unrecoverable"))
		assert.Less(t, time.Since(start), time.Second)
		assert.ErrorIs(t, l.FlushContext(context.Background()), ErrStopped)
		assert.Equal(t, 1001, l.Stats().Buffer.Pending)
	})

	t.Run("FatalDelivers", func(t *testing.T) {
		l, capture := newTestEslog(t, testConfig(), &bytes.Buffer{})
		require.NoError(t, l.Connect(""))

		l.Fatal(Msg("last words"), errors.New("boom"))
		require.Eventually(t, func() bool { return len(capture.documents()) == 1 }, 2*time.Second, 5*time.Millisecond)
		assert.Equal(t, "FATAL", capture.documents()[0]["level"])
	})
}

func TestLogger_ConcurrentProducers(t *testing.T) {
	l, capture := newTestEslog(t, testConfig(), io.Discard)
	require.NoError(t, l.Connect(""))

	const producers, perProducer = 8, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				l.Info(Fields{Int("producer", int64(p)), Int("seq", int64(i))})
			}
		}(p)
	}
	wg.Wait()

	docs := connectAndFlush(t, l, capture, producers*perProducer)

	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		seen[fmt.Sprintf("%v/%v", doc["producer"], doc["seq"])] = true
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestLogger_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	l, _ := newTestEslog(t, testConfig(), &bytes.Buffer{}, WithRegisterer(reg))

	l.Info(Msg("dropped"))

	expected := `
# HELP eslogger_buffer_dropped_total Entries discarded while console-only
# TYPE eslogger_buffer_dropped_total counter
eslogger_buffer_dropped_total 1
# HELP eslogger_console_lines_total Lines rendered to the console
# TYPE eslogger_console_lines_total counter
eslogger_console_lines_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"eslogger_buffer_dropped_total", "eslogger_console_lines_total"))
}
