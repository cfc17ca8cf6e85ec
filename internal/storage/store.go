package storage

import (
	"errors"
	"fmt"

	"zenchat/internal/models"
)

// ErrNotFound is returned when a thread id does not exist in the store
var ErrNotFound = errors.New("thread not found")

// Store holds the thread records. Threads are kept newest-first: Prepend puts a
// thread at the front of List. Implementations return copies, so callers may
// mutate what they receive.
type Store interface {
	List() ([]models.Thread, error)
	Get(id int) (models.Thread, error)
	Prepend(thread models.Thread) error
	SaveMessages(id int, messages []models.Message) error
	Close() error
}

// Open returns the store for the given kind. Both kinds live in memory only.
func Open(kind string) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return NewSQLiteStore()
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)
