// FILE: eslogger/src/internal/filter/filter_test.go
package filter

import (
	"testing"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestSubject_String(t *testing.T) {
	assert.Equal(t, "", Subject{}.String())
	assert.Equal(t, "hello", Subject{Text: "hello"}.String())
	assert.Equal(t, "INFO hello", Subject{Level: "INFO", Text: "hello"}.String())
	assert.Equal(t, "main.go WARN disk", Subject{Module: "main.go", Level: "WARN", Text: "disk"}.String())
}

func TestNewFilter(t *testing.T) {
	logger := newTestLogger()

	t.Run("SuccessWithDefaults", func(t *testing.T) {
		f, err := NewFilter(config.FilterConfig{Patterns: []string{"test"}}, logger)
		require.NoError(t, err)
		assert.Equal(t, config.FilterTypeInclude, f.config.Type)
		assert.Equal(t, config.FilterLogicOr, f.config.Logic)
	})

	t.Run("SuccessWithCustomConfig", func(t *testing.T) {
		cfg := config.FilterConfig{
			Type:     config.FilterTypeExclude,
			Logic:    config.FilterLogicAnd,
			Patterns: []string{"test", "pattern"},
		}
		f, err := NewFilter(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, config.FilterTypeExclude, f.config.Type)
		assert.Equal(t, config.FilterLogicAnd, f.config.Logic)
		assert.Len(t, f.patterns, 2)
	})

	t.Run("ErrorInvalidRegex", func(t *testing.T) {
		f, err := NewFilter(config.FilterConfig{Patterns: []string{"["}}, logger)
		assert.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "invalid regex pattern")
	})
}

func TestFilter_Apply(t *testing.T) {
	logger := newTestLogger()

	include := func(logic config.FilterLogic, patterns ...string) config.FilterConfig {
		return config.FilterConfig{Type: config.FilterTypeInclude, Logic: logic, Patterns: patterns}
	}
	exclude := func(logic config.FilterLogic, patterns ...string) config.FilterConfig {
		return config.FilterConfig{Type: config.FilterTypeExclude, Logic: logic, Patterns: patterns}
	}

	testCases := []struct {
		name     string
		cfg      config.FilterConfig
		subject  Subject
		expected bool
	}{
		{"IncludeOR_MatchOne", include(config.FilterLogicOr, "apple", "banana"), Subject{Text: "this is an apple"}, true},
		{"IncludeOR_NoMatch", include(config.FilterLogicOr, "apple", "banana"), Subject{Text: "this is a pear"}, false},
		{"IncludeAND_MatchAll", include(config.FilterLogicAnd, "apple", "doctor"), Subject{Text: "an apple keeps the doctor away"}, true},
		{"IncludeAND_MatchOne", include(config.FilterLogicAnd, "apple", "doctor"), Subject{Text: "this is an apple"}, false},
		{"ExcludeOR_MatchOne", exclude(config.FilterLogicOr, "timeout", "refused"), Subject{Text: "connection refused"}, false},
		{"ExcludeOR_NoMatch", exclude(config.FilterLogicOr, "timeout", "refused"), Subject{Text: "connected"}, true},
		{"ExcludeAND_MatchAll", exclude(config.FilterLogicAnd, "critical", "database"), Subject{Text: "critical error in database"}, false},
		{"ExcludeAND_MatchOne", exclude(config.FilterLogicAnd, "critical", "database"), Subject{Text: "critical error in app"}, true},
		{"NoPatterns", config.FilterConfig{Type: config.FilterTypeInclude}, Subject{Text: "any message"}, true},
		{"EmptySubject_DoesNotMatchSpace", include(config.FilterLogicOr, " "), Subject{}, false},
		{"MatchOnLevel", include(config.FilterLogicOr, "^ERROR "), Subject{Level: "ERROR", Text: "boom"}, true},
		{"ExcludeDebugNoise", exclude(config.FilterLogicOr, `\bWARN\b`), Subject{Module: "cache.go", Level: "WARN", Text: "miss"}, false},
		{"MatchOnModule", include(config.FilterLogicOr, "^payments/"), Subject{Module: "payments/charge.go", Level: "INFO", Text: "ok"}, true},
		{"MatchOnCombinedFields", include(config.FilterLogicOr, "^app ERROR"), Subject{Module: "app", Level: "ERROR", Text: "A message"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.cfg, logger)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Apply(tc.subject))
		})
	}
}

func TestFilter_Stats(t *testing.T) {
	f, err := NewFilter(config.FilterConfig{Patterns: []string{"keep"}}, newTestLogger())
	require.NoError(t, err)

	f.Apply(Subject{Text: "keep me"})
	f.Apply(Subject{Text: "drop me"})
	f.Apply(Subject{Text: "drop me too"})

	stats := f.GetStats()
	assert.Equal(t, uint64(3), stats["total_processed"])
	assert.Equal(t, uint64(1), stats["total_matched"])
	assert.Equal(t, uint64(2), stats["total_dropped"])
	assert.Equal(t, 1, stats["pattern_count"])
}

func TestFilter_UpdatePatterns(t *testing.T) {
	f, err := NewFilter(config.FilterConfig{Patterns: []string{"old"}}, newTestLogger())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, f.UpdatePatterns([]string{"new", "other"}))
		assert.True(t, f.Apply(Subject{Text: "something new"}))
		assert.False(t, f.Apply(Subject{Text: "something old"}))
	})

	t.Run("InvalidKeepsOldPatterns", func(t *testing.T) {
		err := f.UpdatePatterns([]string{"fine", "("})
		assert.Error(t, err)
		assert.True(t, f.Apply(Subject{Text: "still new"}))
	})
}
