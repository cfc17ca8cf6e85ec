package storage

import (
	"fmt"

	"zenchat/internal/models"
)

// MemoryStore keeps threads in a slice
type MemoryStore struct {
	threads []models.Thread
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// List returns all threads, newest first
func (s *MemoryStore) List() ([]models.Thread, error) {
	out := make([]models.Thread, len(s.threads))
	for i, t := range s.threads {
		out[i] = t.Clone()
	}
	return out, nil
}

// Get returns one thread by id
func (s *MemoryStore) Get(id int) (models.Thread, error) {
	i := s.index(id)
	if i < 0 {
		return models.Thread{}, ErrNotFound
	}
	return s.threads[i].Clone(), nil
}

// Prepend inserts a thread at the front of the list
func (s *MemoryStore) Prepend(thread models.Thread) error {
	if s.index(thread.ID) >= 0 {
		return fmt.Errorf("thread %d already exists", thread.ID)
	}
	s.threads = append([]models.Thread{thread.Clone()}, s.threads...)
	return nil
}

// SaveMessages replaces the messages of a thread
func (s *MemoryStore) SaveMessages(id int, messages []models.Message) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.threads[i].Messages = models.CloneMessages(messages)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) index(id int) int {
	for i := range s.threads {
		if s.threads[i].ID == id {
			return i
		}
	}
	return -1
}
