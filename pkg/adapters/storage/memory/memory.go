package memory

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrUnreachable is returned by every operation while the store is marked unreachable
var ErrUnreachable = errors.New("memory store unreachable")

// InMemoryCounterStore implements CounterStore using an in-memory counter
// This is for testing purposes only
type InMemoryCounterStore struct {
	mu          sync.RWMutex
	visits      int64
	created     bool
	unreachable bool
}

// NewInMemoryCounterStore creates a new in-memory counter store
func NewInMemoryCounterStore() *InMemoryCounterStore {
	return &InMemoryCounterStore{}
}

// SetUnreachable makes every operation fail with ErrUnreachable until reset
func (s *InMemoryCounterStore) SetUnreachable(unreachable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unreachable = unreachable
}

// Ping checks the store (ports.CounterStore interface)
func (s *InMemoryCounterStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unreachable {
		return ErrUnreachable
	}
	return nil
}

// Increment increments the counter (ports.CounterStore interface)
func (s *InMemoryCounterStore) Increment(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unreachable {
		return 0, ErrUnreachable
	}

	s.visits++
	s.created = true
	return s.visits, nil
}

// Current returns the counter as a decimal string (ports.CounterStore interface)
func (s *InMemoryCounterStore) Current(ctx context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unreachable {
		return "", false, ErrUnreachable
	}
	if !s.created {
		return "", false, nil
	}
	return strconv.FormatInt(s.visits, 10), true, nil
}
