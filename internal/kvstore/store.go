// Package kvstore provides an embedded BadgerDB implementation of the search store.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"
)

// Key prefixes for the two record types
const (
	jobPrefix       = "job/"
	candidatePrefix = "candidate/"
)

// Store wraps a BadgerDB instance holding jobs and candidates.
type Store struct {
	db *badger.DB
}

// badgerLogger routes badger's logging through the standard logger.
type badgerLogger struct{}

var _ badger.Logger = badgerLogger{}

func (badgerLogger) Errorf(msg string, items ...any) {
	log.Printf("[kvstore] ERROR: "+msg, items...)
}

func (badgerLogger) Warningf(msg string, items ...any) {
	log.Printf("[kvstore] WARN: "+msg, items...)
}

func (badgerLogger) Infof(string, ...any) {}

func (badgerLogger) Debugf(string, ...any) {}

// Open opens a BadgerDB database at path, creating the directory if needed.
// With inMemory set, path is ignored and nothing touches disk.
func Open(path string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if path == "" {
			return nil, fmt.Errorf("badger path is required")
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create badger directory: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat badger directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = badgerLogger{}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is open.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger is closed")
	}
	return nil
}

func jobKey(id uuid.UUID) []byte {
	return []byte(jobPrefix + id.String())
}

func candidateKey(id uuid.UUID) []byte {
	return []byte(candidatePrefix + id.String())
}

// scan decodes every record under prefix and hands it to fn.
func scan[T any](ctx context.Context, db *badger.DB, prefix string, fn func(*T) error) error {
	return db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			if err := fn(&rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func get[T any](db *badger.DB, key []byte) (*T, error) {
	var rec *T
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec = new(T)
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return rec, nil
}
