package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationsummary/chunk"
	"stationsummary/parse"
	"stationsummary/utils"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "measurements.txt"), resolvePath("data", "measurements"))
	assert.Equal(t, "measurements", resolvePath("", "measurements"))
	assert.Equal(t, "other/file.csv", resolvePath("data", "other/file.csv"))
	assert.Equal(t, "file.txt", resolvePath("data", "file.txt"))
}

func TestParseFlags(t *testing.T) {
	opts, args, err := parseFlags([]string{"-workers", "3", "-merge", "locked", "-mmap", "input.txt"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"input.txt"}, args)
	assert.Equal(t, 3, opts.workers)
	assert.Equal(t, "locked", opts.merge)
	assert.True(t, opts.mmap)

	_, _, err = parseFlags(nil, io.Discard)
	assert.Error(t, err)
}

func TestFailureKind(t *testing.T) {
	malformed := &parse.MalformedRecordError{Offset: 4, Reason: "x"}
	overflow := &parse.MalformedRecordError{Offset: 4, Reason: "x", Overflow: true}
	for want, err := range map[string]error{
		"alignment":        fmt.Errorf("aligning input: %w", &chunk.AlignmentError{Offset: 1, Lookback: 1}),
		"malformed record": fmt.Errorf("worker 1: %w", malformed),
		"numeric overflow": overflow,
		"interrupted":      context.Canceled,
		"internal":         errors.New("boom"),
	} {
		assert.Equal(t, want, failureKind(err))
	}
}

func TestExecute_Output(t *testing.T) {
	path := utils.WriteFile(t, []byte("St1;10.0\nSt2;-5.5\nSt1;20.0\n"))
	var stdout, stderr bytes.Buffer
	code := execute([]string{"-lookup", "St2", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "St1=10.0/20.0/15.0\nSt2=-5.5/-5.5/-5.5\n", stdout.String())
	assert.Contains(t, stderr.String(), "St2=-5.5/-5.5/-5.5\n")
}

func TestExecute_MissingArgument(t *testing.T) {
	assert.Equal(t, 1, execute(nil, io.Discard, io.Discard))
}

func TestExecute_ExportReplacesEarlierRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	first := utils.WriteFile(t, []byte("Ghost;1.0\nSt1;2.0\n"))
	second := utils.WriteFile(t, []byte("St1;3.0\n"))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, execute([]string{"-export", dir, first}, &stdout, &stderr), stderr.String())
	assert.Equal(t, "Ghost=1.0/1.0/1.0\nSt1=2.0/2.0/2.0\n", stdout.String())

	stdout.Reset()
	stderr.Reset()
	require.Equal(t, 0, execute([]string{"-export", dir, "-lookup", "Ghost", second}, &stdout, &stderr), stderr.String())
	assert.Equal(t, "St1=3.0/3.0/3.0\n", stdout.String())
	assert.Contains(t, stderr.String(), "Ghost: not found")
}

func TestExecute_FailedRunKeepsProfile(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	code := execute([]string{"-cpuprofile", dir, filepath.Join(dir, "missing.txt")}, io.Discard, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "brc: open:")

	_, err := os.Stat(filepath.Join(dir, "cpu.pprof"))
	assert.NoError(t, err)
}
