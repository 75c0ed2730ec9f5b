package core

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationsummary/parse"
	"stationsummary/stats"
	"stationsummary/table"
	"stationsummary/utils"
)

func localTables(t *testing.T, data []byte, parts int) []*table.Table {
	t.Helper()
	lines := bytes.SplitAfter(data, []byte{'\n'})
	per := (len(lines) + parts - 1) / parts
	var tables []*table.Table
	for i := 0; i < len(lines); i += per {
		buf := bytes.Join(lines[i:min(i+per, len(lines))], nil)
		local := table.New(0)
		p := parse.NewParser(buf, 0)
		for key, value, ok := p.Next(); ok; key, value, ok = p.Next() {
			local.Insert(key, value)
		}
		require.NoError(t, p.Err())
		tables = append(tables, local)
	}
	return tables
}

func TestGlobalTable_MergeOrderDoesNotMatter(t *testing.T) {
	data := utils.GenerateMeasurements(21, 30000, 100)
	tables := localTables(t, data, 12)

	reference := NewGlobalTable()
	for _, local := range tables {
		reference.Merge(local)
	}
	want := reference.Entries()

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(tables), func(a, b int) {
			tables[a], tables[b] = tables[b], tables[a]
		})
		g := NewGlobalTable()
		for _, local := range tables {
			g.Merge(local)
		}
		if diff := cmp.Diff(want, g.Entries()); diff != "" {
			t.Fatalf("permutation %d differs (-want +got):\n%s", i, diff)
		}
		assert.Equal(t, uint64(30000), g.Records())
	}
}

func TestGlobalTable_AscendStops(t *testing.T) {
	g := NewGlobalTable()
	local := table.New(0)
	for _, key := range []string{"c", "a", "b"} {
		local.Insert([]byte(key), 10)
	}
	g.Merge(local)

	var seen []string
	g.Ascend(func(key []byte, _ stats.Statistic) bool {
		seen = append(seen, string(key))
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
