package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbocharov/shortkv/internal/storage"
)

// Store is an in-process implementation of the key-value contract, used as
// the dev backend and in tests.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

func New() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.memory.Store.Get"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	const op = "storage.memory.Store.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value

	return nil
}

func (s *Store) PutIfAbsent(ctx context.Context, key string, value string) (bool, error) {
	const op = "storage.memory.Store.PutIfAbsent"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value

	return true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.memory.Store.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

var _ storage.ConditionalStore = (*Store)(nil)
