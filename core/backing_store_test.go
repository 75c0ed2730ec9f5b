package core

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationsummary/stats"
	"stationsummary/storage"
	"stationsummary/utils"
)

func TestStatisticEncoding(t *testing.T) {
	s := stats.Statistic{Count: 3, Min: -999, Max: 999, Sum: 12}
	buf, err := StatisticToBytes(s)
	require.NoError(t, err)
	decoded, err := BytesToStatistic(buf)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)

	summary := &RunSummary{Stations: 2, Records: 3, Chunks: 1, Bytes: 27, Elapsed: time.Second}
	buf, err = RunSummaryToBytes(summary)
	require.NoError(t, err)
	decodedSummary, err := BytesToRunSummary(buf)
	require.NoError(t, err)
	assert.Equal(t, summary, decodedSummary)

	_, err = BytesToStatistic([]byte("garbage"))
	assert.Error(t, err)
}

func testResultStore(t *testing.T, backend storage.Backend, cacheEnabled bool) {
	data := utils.GenerateMeasurements(13, 5000, 40)
	result, err := Run(context.Background(), newMemSource(data), testConfig(MergeCollector))
	require.NoError(t, err)

	store, err := NewResultStore(backend, cacheEnabled)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Export(result))

	var fromTable, fromStore bytes.Buffer
	require.NoError(t, Emit(&fromTable, result.Table))
	require.NoError(t, EmitStore(&fromStore, store))
	assert.Equal(t, fromTable.String(), fromStore.String())

	result.Table.Ascend(func(station []byte, want stats.Statistic) bool {
		for i := 0; i < 2; i++ {
			got, ok, err := store.Lookup(station)
			require.NoError(t, err)
			require.True(t, ok, string(station))
			assert.Equal(t, want, got)
		}
		return true
	})

	_, ok, err := store.Lookup([]byte("Atlantis"))
	require.NoError(t, err)
	assert.False(t, ok)

	summary, err := store.RunSummary()
	require.NoError(t, err)
	assert.Equal(t, uint64(result.Table.Len()), summary.Stations)
	assert.Equal(t, uint64(5000), summary.Records)
	assert.Equal(t, uint64(result.Chunks), summary.Chunks)
	assert.Equal(t, int64(len(data)), summary.Bytes)
}

func TestResultStore_InMemory(t *testing.T) {
	testResultStore(t, storage.NewInMemoryBackend(), false)
}

func TestResultStore_InMemoryCached(t *testing.T) {
	testResultStore(t, storage.NewInMemoryBackend(), true)
}

func TestResultStore_Badger(t *testing.T) {
	backend, err := storage.NewBadgerBackend(storage.TestBadgerBackendConfig())
	require.NoError(t, err)
	testResultStore(t, backend, true)
}

func exportTo(t *testing.T, dir string, data string) *ResultStore {
	t.Helper()
	result, err := Run(context.Background(), newMemSource([]byte(data)), testConfig(MergeCollector))
	require.NoError(t, err)

	backend, err := storage.NewBadgerBackend(&storage.BadgerBackendConfig{Path: dir})
	require.NoError(t, err)
	store, err := NewResultStore(backend, true)
	require.NoError(t, err)
	require.NoError(t, store.Export(result))
	return store
}

func TestResultStore_ExportReplacesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, exportTo(t, dir, "Ghost;1.0\nSt1;2.0\n").Close())

	store := exportTo(t, dir, "St1;3.0\n")
	defer store.Close()

	_, ok, err := store.Lookup([]byte("Ghost"))
	require.NoError(t, err)
	assert.False(t, ok)

	var out bytes.Buffer
	require.NoError(t, EmitStore(&out, store))
	assert.Equal(t, "St1=3.0/3.0/3.0\n", out.String())

	summary, err := store.RunSummary()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.Stations)
	assert.Equal(t, uint64(1), summary.Records)
}

func TestResultStore_ExportTwiceOnOneStore(t *testing.T) {
	store, err := NewResultStore(storage.NewInMemoryBackend(), false)
	require.NoError(t, err)
	defer store.Close()

	for _, data := range []string{"Ghost;1.0\nSt1;2.0\n", "St1;3.0\n"} {
		result, err := Run(context.Background(), newMemSource([]byte(data)), testConfig(MergeLocked))
		require.NoError(t, err)
		require.NoError(t, store.Export(result))
	}

	var stations []string
	require.NoError(t, store.Ascend(func(station []byte, _ stats.Statistic) error {
		stations = append(stations, string(station))
		return nil
	}))
	assert.Equal(t, []string{"St1"}, stations)
}
