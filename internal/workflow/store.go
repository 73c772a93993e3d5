package workflow

import (
	"context"
	"sort"
	"sync"
)

// API is the backend surface the engine depends on. *backend.Client is
// the production implementation; tests substitute an in-memory fake.
type API interface {
	Context(ctx context.Context) (ContextSnapshot, error)
	Workflows(ctx context.Context) ([]Record, error)
	Execute(ctx context.Context, text string, mode Mode, record bool) (string, error)
	Replay(ctx context.Context, id int64) (string, error)
	DeleteWorkflow(ctx context.Context, id int64) error
	DeleteAllWorkflows(ctx context.Context) error
}

// Store is the client-side view of the backend's workflow history: an
// ordered cache synchronized against the backend. The backend owns the
// records; the store never invents or mutates one.
type Store struct {
	api API

	mu      sync.RWMutex
	records []Record
}

// NewStore creates an empty store backed by api.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// Refresh replaces the cached list with the backend's current one, most
// recent first. When the backend cannot be reached the previous cache is
// retained unchanged.
func (s *Store) Refresh(ctx context.Context) error {
	records, err := s.api.Workflows(ctx)
	if err != nil {
		return err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Records returns a copy of the cached list, most recent first.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

// Len returns the number of cached records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// DeleteOne removes a record from the backend, then from the cache once
// the backend confirmed. No optimistic removal: a failed or not-found
// delete leaves the cache exactly as it was.
func (s *Store) DeleteOne(ctx context.Context, id int64) error {
	if err := s.api.DeleteWorkflow(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll clears the backend history and then the cache. The cache is
// never cleared ahead of backend confirmation, so local and backend state
// cannot diverge on failure.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.api.DeleteAllWorkflows(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}
