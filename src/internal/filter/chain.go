// FILE: eslogger/src/internal/filter/chain.go
package filter

import (
	"fmt"
	"sync/atomic"

	"eslogger/src/internal/config"

	"github.com/lixenwraith/log"
)

// Chain manages a sequence of filters, applying them in order.
type Chain struct {
	filters []*Filter
	logger  *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalPassed    atomic.Uint64
}

// NewChain creates a new filter chain from a slice of filter configurations.
func NewChain(configs []config.FilterConfig, logger *log.Logger) (*Chain, error) {
	chain := &Chain{
		filters: make([]*Filter, 0, len(configs)),
		logger:  logger,
	}

	for i, cfg := range configs {
		filter, err := NewFilter(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("filter[%d]: %w", i, err)
		}
		chain.filters = append(chain.filters, filter)
	}

	if len(configs) > 0 {
		logger.Info("msg", "Filter chain created",
			"component", "filter_chain",
			"filter_count", len(configs))
	}
	return chain, nil
}

// Apply runs a subject through all filters in the chain.
func (c *Chain) Apply(s Subject) bool {
	c.totalProcessed.Add(1)

	for i, filter := range c.filters {
		if !filter.Apply(s) {
			c.logger.Debug("msg", "Entry filtered out",
				"component", "filter_chain",
				"filter_index", i,
				"filter_type", filter.config.Type)
			return false
		}
	}

	c.totalPassed.Add(1)
	return true
}

// Len returns the number of filters.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Stats contains chain counters
type Stats struct {
	Filters        int
	TotalProcessed uint64
	TotalPassed    uint64
}

// GetStats returns aggregated statistics for the entire chain.
func (c *Chain) GetStats() Stats {
	return Stats{
		Filters:        len(c.filters),
		TotalProcessed: c.totalProcessed.Load(),
		TotalPassed:    c.totalPassed.Load(),
	}
}
