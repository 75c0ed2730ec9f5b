package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stationsummary/stats"
	"stationsummary/table"
)

func TestAppendLine(t *testing.T) {
	s := stats.New(5)
	s.Add(6)
	s.Add(6)
	assert.Equal(t, "Hamburg=0.5/0.6/0.5\n", string(AppendLine(nil, []byte("Hamburg"), s)))

	neg := stats.New(-5)
	neg.Add(-6)
	assert.Equal(t, "x=-0.6/-0.5/-0.5\n", string(AppendLine(nil, []byte("x"), neg)))
}

func TestEmit_OrdersByRawBytes(t *testing.T) {
	local := table.New(0)
	for _, key := range []string{"b", "Z", "é", "a", ""} {
		local.Insert([]byte(key), 10)
	}
	g := NewGlobalTable()
	g.Merge(local)

	var out bytes.Buffer
	assert.NoError(t, Emit(&out, g))
	assert.Equal(t, "=1.0/1.0/1.0\nZ=1.0/1.0/1.0\na=1.0/1.0/1.0\nb=1.0/1.0/1.0\né=1.0/1.0/1.0\n", out.String())
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestEmit_WriteError(t *testing.T) {
	local := table.New(0)
	local.Insert([]byte("a"), 1)
	g := NewGlobalTable()
	g.Merge(local)

	err := Emit(failingWriter{}, g)
	assert.True(t, errors.Is(err, errWrite))
}
