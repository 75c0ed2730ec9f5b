package storage

import (
	"bytes"
	"errors"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrNotFound = errors.New("key not found")

const (
	stationPrefix = byte('s')
	runPrefix     = byte('r')
)

// StationKey is <'s'> <station bytes>. Keys of one prefix sort exactly like
// the station names they embed.
func StationKey(station []byte) []byte {
	buf := make([]byte, 1+len(station))
	buf[0] = stationPrefix
	copy(buf[1:], station)
	return buf
}

func StationPrefix() []byte {
	return []byte{stationPrefix}
}

func GetStationFromKey(key []byte) []byte {
	return key[1:]
}

func RunKey() []byte {
	return []byte{runPrefix}
}

type Entry struct {
	Key   []byte
	Value []byte
}

type Backend interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	PutBatch(entries []Entry) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(prefix []byte) error
	// Iterate visits keys with the given prefix in ascending byte order.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

type InMemoryBackend struct {
	entries map[string][]byte
	mu      sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		entries: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(key []byte) ([]byte, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	value, ok := backend.entries[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (backend *InMemoryBackend) Put(key, value []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entries[string(key)] = value
	return nil
}

func (backend *InMemoryBackend) PutBatch(entries []Entry) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for _, e := range entries {
		backend.entries[string(e.Key)] = e.Value
	}
	return nil
}

func (backend *InMemoryBackend) DeletePrefix(prefix []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for k := range backend.entries {
		if bytes.HasPrefix([]byte(k), prefix) {
			delete(backend.entries, k)
		}
	}
	return nil
}

func (backend *InMemoryBackend) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	backend.mu.Lock()
	keys := maps.Keys(backend.entries)
	slices.Sort(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = backend.entries[k]
	}
	backend.mu.Unlock()

	for i, k := range keys {
		key := []byte(k)
		if !bytes.HasPrefix(key, prefix) {
			continue
		}
		if err := fn(key, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entries = nil
	return nil
}
