package core

import (
	"context"
	"log/slog"
	"sync"

	"stationsummary/stats"
)

type lockedEntry struct {
	mu   sync.Mutex
	stat stats.Statistic
}

// LockedTable is the shared-table merger. Lookups of existing keys take the
// table read lock plus the entry's own mutex; only a brand-new key takes the
// table write lock. Entries are never removed.
type LockedTable struct {
	mu      sync.RWMutex
	entries map[string]*lockedEntry

	statsMu sync.Mutex
	stats   *stats.RunStatistics
	logger  *slog.Logger
}

func NewLockedTable(logger *slog.Logger) *LockedTable {
	return &LockedTable{
		entries: make(map[string]*lockedEntry),
		stats:   stats.NewRunStatistics(),
		logger:  logger.With("component", "locked-table"),
	}
}

// Run has nothing to drive; workers merge inside Report.
func (l *LockedTable) Run(ctx context.Context) error {
	return nil
}

func (l *LockedTable) Report(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	report.Table.Each(func(key []byte, s *stats.Statistic) {
		l.merge(key, *s)
	})

	l.statsMu.Lock()
	l.stats.Append(report.Table.Records(), report.Chunk.Len(), report.Elapsed)
	l.statsMu.Unlock()
	return nil
}

func (l *LockedTable) merge(key []byte, s stats.Statistic) {
	l.mu.RLock()
	if e, ok := l.entries[string(key)]; ok {
		e.mu.Lock()
		e.stat.Merge(s)
		e.mu.Unlock()
		l.mu.RUnlock()
		return
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	// another worker may have inserted the key between the two locks
	if e, ok := l.entries[string(key)]; ok {
		e.stat.Merge(s)
		return
	}
	l.entries[string(key)] = &lockedEntry{stat: s}
}

func (l *LockedTable) Close() {}

// Result snapshots the entries into an ordered GlobalTable.
func (l *LockedTable) Result() *GlobalTable {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := NewGlobalTable()
	for key, e := range l.entries {
		result.MergeStatistic([]byte(key), e.stat)
	}
	l.logger.Debug("snapshot taken", "stations", result.Len())
	return result
}

func (l *LockedTable) Stats() *stats.RunStatistics {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}
