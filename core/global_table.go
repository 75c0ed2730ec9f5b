package core

import (
	"stationsummary/stats"
	"stationsummary/table"
	"stationsummary/tree"
)

// GlobalTable is the union of all local tables, kept in byte-wise key order.
// Only the merge phase writes to it.
type GlobalTable struct {
	tree    *tree.RbTree
	records uint64
}

func NewGlobalTable() *GlobalTable {
	return &GlobalTable{tree: tree.NewRbTree()}
}

// Merge folds a local table in. Keys are copied, so the local table can be
// dropped afterwards.
func (g *GlobalTable) Merge(local *table.Table) {
	local.Each(func(key []byte, s *stats.Statistic) {
		g.MergeStatistic(key, *s)
	})
}

func (g *GlobalTable) MergeStatistic(key []byte, s stats.Statistic) {
	g.tree.Upsert(key, s)
	g.records += s.Count
}

func (g *GlobalTable) Get(key []byte) (stats.Statistic, bool) {
	return g.tree.Get(key)
}

// Len is the number of distinct keys.
func (g *GlobalTable) Len() int {
	return g.tree.Count()
}

// Records is the sum of all counts.
func (g *GlobalTable) Records() uint64 {
	return g.records
}

// Ascend visits keys in ascending byte order until fn returns false.
func (g *GlobalTable) Ascend(fn func(key []byte, s stats.Statistic) bool) {
	g.tree.Ascend(func(key []byte, s stats.Statistic) bool {
		return !fn(key, s)
	})
}

// Entries copies the table into a map, mostly for comparisons.
func (g *GlobalTable) Entries() map[string]stats.Statistic {
	entries := make(map[string]stats.Statistic, g.Len())
	g.Ascend(func(key []byte, s stats.Statistic) bool {
		entries[string(key)] = s
		return true
	})
	return entries
}
