package history

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Add stores r.
func (s *MemoryStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; exists {
		return fmt.Errorf("record %s already exists", r.ID)
	}
	s.records[r.ID] = r
	return nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	s.mu.RUnlock()

	sortNewestFirst(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Summary aggregates every stored record.
func (s *MemoryStore) Summary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	for _, r := range s.records {
		sum.add(r)
	}
	sum.finish()
	return sum, nil
}

// Clear deletes every record.
func (s *MemoryStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.records)
	s.records = make(map[string]Record)
	return n, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// nopStore discards everything. It backs the "none" backend.
type nopStore struct{}

func (nopStore) Add(context.Context, Record) error { return nil }
func (nopStore) List(context.Context, int) ([]Record, error) { return nil, nil }
func (nopStore) Summary(context.Context) (Summary, error) { return Summary{}, nil }
func (nopStore) Clear(context.Context) (int, error) { return 0, nil }
func (nopStore) Close() error { return nil }
