package core

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"stationsummary/stats"
	"stationsummary/storage"
)

// ResultStore exports the final table of a run into a key-value backend and
// answers per-station lookups against it, through a read cache.
type ResultStore struct {
	backend      storage.Backend
	cacheEnabled bool
	cache        *ristretto.Cache
}

func NewResultStore(backend storage.Backend, cacheEnabled bool) (*ResultStore, error) {
	store := &ResultStore{
		backend:      backend,
		cacheEnabled: cacheEnabled,
	}
	if cacheEnabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e5,
			MaxCost:     1 << 14,
			BufferItems: 64,
		})
		if err != nil {
			return nil, err
		}
		store.cache = cache
	}
	return store, nil
}

// Export replaces whatever the backend holds with the stations of result
// plus a run summary.
func (store *ResultStore) Export(result *Result) error {
	if err := store.clear(); err != nil {
		return fmt.Errorf("clearing previous export: %w", err)
	}

	entries := make([]storage.Entry, 0, result.Table.Len()+1)
	var err error
	result.Table.Ascend(func(station []byte, s stats.Statistic) bool {
		var buf []byte
		if buf, err = StatisticToBytes(s); err != nil {
			return false
		}
		entries = append(entries, storage.Entry{Key: storage.StationKey(station), Value: buf})
		return true
	})
	if err != nil {
		return fmt.Errorf("encoding station: %w", err)
	}

	summary := &RunSummary{
		Stations: uint64(result.Table.Len()),
		Records:  result.Table.Records(),
		Chunks:   uint64(result.Chunks),
		Elapsed:  result.Elapsed,
	}
	if result.Stats != nil {
		summary.Bytes = result.Stats.Bytes
	}
	buf, err := RunSummaryToBytes(summary)
	if err != nil {
		return fmt.Errorf("encoding run summary: %w", err)
	}
	entries = append(entries, storage.Entry{Key: storage.RunKey(), Value: buf})

	return store.backend.PutBatch(entries)
}

func (store *ResultStore) clear() error {
	if store.cacheEnabled {
		err := store.backend.Iterate(storage.StationPrefix(), func(key, _ []byte) error {
			store.cache.Del(string(storage.GetStationFromKey(key)))
			return nil
		})
		if err != nil {
			return err
		}
	}
	if err := store.backend.DeletePrefix(storage.StationPrefix()); err != nil {
		return err
	}
	return store.backend.DeletePrefix(storage.RunKey())
}

// Lookup returns the exported statistic of station. ok is false when the
// station was never seen.
func (store *ResultStore) Lookup(station []byte) (s stats.Statistic, ok bool, err error) {
	if store.cacheEnabled {
		if cached, found := store.cache.Get(string(station)); found {
			return cached.(stats.Statistic), true, nil
		}
	}
	buf, err := store.backend.Get(storage.StationKey(station))
	if errors.Is(err, storage.ErrNotFound) {
		return stats.Statistic{}, false, nil
	}
	if err != nil {
		return stats.Statistic{}, false, err
	}
	if s, err = BytesToStatistic(buf); err != nil {
		return stats.Statistic{}, false, err
	}
	if store.cacheEnabled {
		store.cache.Set(string(station), s, 1)
	}
	return s, true, nil
}

// Ascend visits exported stations in ascending byte order. Returning an
// error from fn stops the iteration and is passed back.
func (store *ResultStore) Ascend(fn func(station []byte, s stats.Statistic) error) error {
	return store.backend.Iterate(storage.StationPrefix(), func(key, value []byte) error {
		s, err := BytesToStatistic(value)
		if err != nil {
			return err
		}
		return fn(storage.GetStationFromKey(key), s)
	})
}

func (store *ResultStore) RunSummary() (*RunSummary, error) {
	buf, err := store.backend.Get(storage.RunKey())
	if err != nil {
		return nil, err
	}
	return BytesToRunSummary(buf)
}

func (store *ResultStore) Close() error {
	if store.cache != nil {
		store.cache.Close()
	}
	return store.backend.Close()
}
