// Package table is the per-chunk aggregate: an open-addressing hash table
// from byte keys to statistics, owned by exactly one worker.
package table

import (
	"bytes"

	"github.com/zeebo/xxh3"

	"stationsummary/stats"
)

const (
	minSlots  = 1 << 10
	arenaSize = 1 << 16
)

type slot struct {
	hash uint64
	key  []byte
	stat stats.Statistic
	used bool
}

// Table is not safe for concurrent use.
type Table struct {
	slots   []slot
	mask    uint64
	size    int
	records uint64
	arena   []byte
}

// New returns a table sized for about capacityHint distinct keys.
func New(capacityHint int) *Table {
	n := minSlots
	for n < capacityHint*2 {
		n <<= 1
	}
	return &Table{
		slots: make([]slot, n),
		mask:  uint64(n - 1),
	}
}

// Insert folds value into key's statistic. The key is copied on first sight,
// so callers may reuse its backing buffer.
func (t *Table) Insert(key []byte, value int64) {
	t.records++
	h := xxh3.Hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if !s.used {
			s.used = true
			s.hash = h
			s.key = t.own(key)
			s.stat = stats.New(value)
			t.size++
			if t.size*2 > len(t.slots) {
				t.grow()
			}
			return
		}
		if s.hash == h && bytes.Equal(s.key, key) {
			s.stat.Add(value)
			return
		}
	}
}

func (t *Table) Get(key []byte) (stats.Statistic, bool) {
	h := xxh3.Hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if !s.used {
			return stats.Statistic{}, false
		}
		if s.hash == h && bytes.Equal(s.key, key) {
			return s.stat, true
		}
	}
}

// Len is the number of distinct keys.
func (t *Table) Len() int {
	return t.size
}

// Records is the number of values inserted.
func (t *Table) Records() uint64 {
	return t.records
}

// Each visits entries in no particular order. The key slice is owned by the
// table.
func (t *Table) Each(fn func(key []byte, s *stats.Statistic)) {
	for i := range t.slots {
		if t.slots[i].used {
			fn(t.slots[i].key, &t.slots[i].stat)
		}
	}
}

// own copies key into the arena. Earlier keys keep pointing into the old
// backing array when the arena is replaced.
func (t *Table) own(key []byte) []byte {
	if len(t.arena)+len(key) > cap(t.arena) {
		t.arena = make([]byte, 0, max(arenaSize, len(key)))
	}
	start := len(t.arena)
	t.arena = append(t.arena, key...)
	return t.arena[start:len(t.arena):len(t.arena)]
}

func (t *Table) grow() {
	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.mask = uint64(len(t.slots) - 1)
	for _, s := range old {
		if !s.used {
			continue
		}
		i := s.hash & t.mask
		for t.slots[i].used {
			i = (i + 1) & t.mask
		}
		t.slots[i] = s
	}
}
