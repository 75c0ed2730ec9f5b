package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stationsummary/chunk"
	"stationsummary/stats"
	"stationsummary/table"
)

// Report is what a worker hands over after finishing one chunk.
type Report struct {
	Chunk   chunk.Descriptor
	Table   *table.Table
	Elapsed time.Duration
}

// Merger folds local tables into the global table. Report may be called
// from many goroutines; Result and Stats only after Run has returned and no
// Report is in flight.
type Merger interface {
	Run(ctx context.Context) error
	Report(ctx context.Context, report Report) error
	Close()
	Result() *GlobalTable
	Stats() *stats.RunStatistics
}

func NewMerger(config *Config) Merger {
	if config.MergeMode == MergeLocked {
		return NewLockedTable(config.logger())
	}
	return NewCollector(config.QueueSize, config.logger())
}

// Collector owns the global table outright: workers send it whole local
// tables over a bounded channel and it merges them one at a time.
type Collector struct {
	inbox     chan Report
	table     *GlobalTable
	stats     *stats.RunStatistics
	logger    *slog.Logger
	closeOnce sync.Once
}

func NewCollector(queueSize int, logger *slog.Logger) *Collector {
	return &Collector{
		inbox:  make(chan Report, queueSize),
		table:  NewGlobalTable(),
		stats:  stats.NewRunStatistics(),
		logger: logger.With("component", "collector"),
	}
}

func (c *Collector) Report(ctx context.Context, report Report) error {
	select {
	case c.inbox <- report:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tells Run that no more reports will arrive.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		close(c.inbox)
	})
}

func (c *Collector) Run(ctx context.Context) error {
	for {
		select {
		case report, ok := <-c.inbox:
			if !ok {
				c.logger.Debug("inbox drained", "stations", c.table.Len(), "chunks", c.stats.Chunks)
				return nil
			}
			c.table.Merge(report.Table)
			c.stats.Append(report.Table.Records(), report.Chunk.Len(), report.Elapsed)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Collector) Result() *GlobalTable {
	return c.table
}

func (c *Collector) Stats() *stats.RunStatistics {
	return c.stats
}
