// Package prefs stores client preferences that survive restarts.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"inkline/internal/projection"

	"github.com/dgraph-io/badger/v3"
)

// Keys of stored preferences.
const (
	KeyNotesSort    = "notes_sort_config"
	KeyArchivedSort = "archived_notes_sort_config"
	KeyFontSize     = "noteEditorFontSize"
)

// Editor font size bounds.
const (
	DefaultFontSize = 16
	MinFontSize     = 12
	MaxFontSize     = 32
)

// Store is a small badger-backed key/value store.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

// Open opens the store rooted at dir.
func Open(dir string, log *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions(dir), log)
}

// InMemory opens a store that lives only as long as the process.
func InMemory(log *slog.Logger) (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), log)
}

func open(opts badger.Options, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string, out any) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func sortKey(archived bool) string {
	if archived {
		return KeyArchivedSort
	}
	return KeyNotesSort
}

// Sort returns the saved ordering of the main or archived list. Unreadable
// values fall back to the default.
func (s *Store) Sort(archived bool) projection.Sort {
	var v projection.Sort
	ok, err := s.get(sortKey(archived), &v)
	if err != nil {
		s.log.Warn("ignoring stored sort", "error", err)
		return projection.DefaultSort
	}
	if !ok {
		return projection.DefaultSort
	}
	if parsed, err := projection.ParseSort(v.Key, v.Direction); err == nil {
		return parsed
	}
	return projection.DefaultSort
}

// SetSort saves the ordering of the main or archived list.
func (s *Store) SetSort(archived bool, v projection.Sort) error {
	return s.put(sortKey(archived), v)
}

// ClampFontSize keeps size within the supported range.
func ClampFontSize(size int) int {
	return max(MinFontSize, min(MaxFontSize, size))
}

// FontSize returns the editor font size.
func (s *Store) FontSize() int {
	var v int
	ok, err := s.get(KeyFontSize, &v)
	if err != nil {
		s.log.Warn("ignoring stored font size", "error", err)
		return DefaultFontSize
	}
	if !ok {
		return DefaultFontSize
	}
	return ClampFontSize(v)
}

// SetFontSize stores size clamped to the supported range and returns it.
func (s *Store) SetFontSize(size int) (int, error) {
	size = ClampFontSize(size)
	return size, s.put(KeyFontSize, size)
}
