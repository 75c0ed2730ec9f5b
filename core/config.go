package core

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

const (
	DefaultChunkSize = 8 << 20
	DefaultLookback  = 256
	QueueSize        = 100
)

type MergeMode int

const (
	// MergeCollector sends every local table to one collector goroutine.
	MergeCollector MergeMode = iota
	// MergeLocked lets workers merge into a shared table under locks.
	MergeLocked
)

func (m MergeMode) String() string {
	switch m {
	case MergeCollector:
		return "collector"
	case MergeLocked:
		return "locked"
	default:
		return fmt.Sprintf("MergeMode(%d)", int(m))
	}
}

func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(s) {
	case "collector", "":
		return MergeCollector, nil
	case "locked":
		return MergeLocked, nil
	default:
		return 0, fmt.Errorf("unknown merge mode %q", s)
	}
}

type Config struct {
	ChunkSize    int64
	Lookback     int64
	Workers      int
	QueueSize    int
	MergeMode    MergeMode
	UseMmap      bool
	CacheEnabled bool
	Logger       *slog.Logger
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:    DefaultChunkSize,
		Lookback:     DefaultLookback,
		Workers:      runtime.NumCPU(),
		QueueSize:    QueueSize,
		MergeMode:    MergeCollector,
		CacheEnabled: true,
		Logger:       slog.Default(),
	}
}

func (config *Config) Validate() error {
	if config.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if config.Lookback <= 0 {
		return errors.New("lookback must be positive")
	}
	if config.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if config.QueueSize < 0 {
		return errors.New("queue size must not be negative")
	}
	if config.MergeMode != MergeCollector && config.MergeMode != MergeLocked {
		return fmt.Errorf("invalid merge mode %v", config.MergeMode)
	}
	return nil
}

func (config *Config) logger() *slog.Logger {
	if config.Logger == nil {
		return slog.Default()
	}
	return config.Logger
}
