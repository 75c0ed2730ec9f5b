package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergeMode(t *testing.T) {
	mode, err := ParseMergeMode("locked")
	require.NoError(t, err)
	assert.Equal(t, MergeLocked, mode)

	mode, err = ParseMergeMode("Collector")
	require.NoError(t, err)
	assert.Equal(t, MergeCollector, mode)

	_, err = ParseMergeMode("sharded")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for name, mutate := range map[string]func(*Config){
		"chunk size": func(c *Config) { c.ChunkSize = 0 },
		"lookback":   func(c *Config) { c.Lookback = -1 },
		"workers":    func(c *Config) { c.Workers = 0 },
		"queue":      func(c *Config) { c.QueueSize = -1 },
		"merge mode": func(c *Config) { c.MergeMode = MergeMode(7) },
	} {
		config := DefaultConfig()
		mutate(config)
		assert.Error(t, config.Validate(), name)
	}
}
