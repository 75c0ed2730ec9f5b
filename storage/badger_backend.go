package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v2"
)

// InMemory selects a Badger instance that never touches the disk.
const InMemory = ":memory:"

type BadgerBackendConfig struct {
	Path   string
	Logger badger.Logger
}

func TestBadgerBackendConfig() *BadgerBackendConfig {
	return &BadgerBackendConfig{Path: InMemory}
}

func (config *BadgerBackendConfig) options() badger.Options {
	var options badger.Options
	if config.Path == InMemory || config.Path == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		options = badger.DefaultOptions(config.Path)
	}
	if config.Logger != nil {
		options = options.WithLogger(config.Logger)
	}
	return options
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(config *BadgerBackendConfig) (*BadgerBackend, error) {
	db, err := badger.Open(config.options())
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

func (backend *BadgerBackend) Get(key []byte) ([]byte, error) {
	var value []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (backend *BadgerBackend) Put(key, value []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// PutBatch goes through a WriteBatch, which splits into as many
// transactions as badger needs.
func (backend *BadgerBackend) PutBatch(entries []Entry) error {
	wb := backend.db.NewWriteBatch()
	for _, e := range entries {
		if err := wb.Set(e.Key, e.Value); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func (backend *BadgerBackend) DeletePrefix(prefix []byte) error {
	var keys [][]byte
	err := backend.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		iterOpts.PrefetchValues = false
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return err
	}

	wb := backend.db.NewWriteBatch()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

func (backend *BadgerBackend) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return backend.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			item := iter.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}
