package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerSlot keeps the collection under one key of an embedded badger store.
type BadgerSlot struct {
	db  *badger.DB
	key []byte
}

// OpenBadgerSlot opens the badger directory at dir.
func OpenBadgerSlot(dir, key string) (*BadgerSlot, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	return openBadger(opts, key)
}

// NewInMemoryBadgerSlot opens a badger store that never touches disk.
func NewInMemoryBadgerSlot(key string) (*BadgerSlot, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return openBadger(opts, key)
}

func openBadger(opts badger.Options, key string) (*BadgerSlot, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerSlot{db: db, key: []byte(key)}, nil
}

// Load returns the stored payload, or nil when the key has never been written.
func (b *BadgerSlot) Load() ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return value, nil
}

// Save replaces the payload.
func (b *BadgerSlot) Save(data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key, data)
	})
	if err != nil {
		return fmt.Errorf("set slot: %w", err)
	}
	return nil
}

// Backup stores data under a new key derived from the slot key and returns that key.
func (b *BadgerSlot) Backup(data []byte) (string, error) {
	key := string(b.key) + backupSuffix(time.Now())
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("set backup: %w", err)
	}
	return key, nil
}

// Close closes the store.
func (b *BadgerSlot) Close() error {
	return b.db.Close()
}
