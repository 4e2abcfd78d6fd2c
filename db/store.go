package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tidwall/jsonc"
)

// ErrNotExist is returned by a Backend when the named document has never
// been written.
var ErrNotExist = errors.New("document does not exist")

// Backend persists whole documents by name. Implementations do no locking
// of their own; Store serializes access per document.
type Backend interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Store hands out collections over a single Backend and owns one mutex per
// document name, so every read-modify-write cycle on a document runs alone.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		backend: backend,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}

	return l
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// Collection is a typed view of one document: a JSON array of T.
type Collection[T any] struct {
	store *Store
	name  string
}

func NewCollection[T any](store *Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// All returns every record. A missing, unreadable or corrupt document reads
// as an empty collection.
func (c *Collection[T]) All() []T {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	return c.load()
}

// ReplaceAll overwrites the document with records.
func (c *Collection[T]) ReplaceAll(records []T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	return c.save(records)
}

func (c *Collection[T]) Append(record T) error {
	return c.Update(func(records []T) ([]T, error) {
		return append(records, record), nil
	})
}

// DeleteWhere removes every record matching match and reports how many were
// removed. The document is only rewritten when something was removed.
func (c *Collection[T]) DeleteWhere(match func(T) bool) (int, error) {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records := c.load()
	kept := records[:0:0]

	for _, record := range records {
		if !match(record) {
			kept = append(kept, record)
		}
	}

	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := c.save(kept); err != nil {
		return 0, err
	}

	return removed, nil
}

// Update loads the collection, hands it to mutate and writes back whatever
// mutate returns. When mutate fails nothing is written and its error is
// returned unchanged.
func (c *Collection[T]) Update(mutate func(records []T) ([]T, error)) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	records, err := mutate(c.load())
	if err != nil {
		return err
	}

	return c.save(records)
}

func (c *Collection[T]) load() []T {
	raw, err := c.store.backend.Load(c.name)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			c.store.logger.Warn("document unreadable, treating as empty", "document", c.name, "error", err)
		}
		return []T{}
	}

	records, err := decode[T](raw)
	if err != nil {
		c.store.logger.Warn("document corrupt, treating as empty", "document", c.name, "error", err)
		return []T{}
	}

	return records
}

func (c *Collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", c.name, err)
	}

	if err := c.store.backend.Save(c.name, data); err != nil {
		return fmt.Errorf("saving %s: %w", c.name, err)
	}

	return nil
}

// decode accepts plain JSON as well as hand-edited documents carrying
// comments or trailing commas.
func decode[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(jsonc.ToJSON(trimmed), &records); err != nil {
		return nil, err
	}

	if records == nil {
		records = []T{}
	}

	return records, nil
}
