package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps an embedded badger database as a plain key-value string store.
// It is the durable home for the four state slots and never interprets the
// values it holds beyond JSON (de)serialization.
type Store struct {
	db *badger.DB
}

// Options configures where the store keeps its data.
type Options struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool
}

// Open opens the store, creating the data directory if needed.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// getItem returns the string stored under key and whether it was present.
// Read errors are logged and reported as absence; callers fall back to the
// slot default.
func (s *Store) getItem(key string) (string, bool) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Printf("Error reading key %s: %v", key, err)
		}
		return "", false
	}
	return string(val), true
}

func (s *Store) setItem(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *Store) removeItem(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
