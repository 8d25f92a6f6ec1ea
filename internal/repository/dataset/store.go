// Package dataset keeps uploaded creator tables in memory for the
// lifetime of the process.
package dataset

import (
	"context"
	"sync"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
)

// Store is a mutex-guarded in-memory dataset repository. Datasets are
// returned by value so callers cannot mutate stored records.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]creator.Dataset
	order    []string
}

// New creates an empty dataset store.
func New() *Store {
	return &Store{datasets: map[string]creator.Dataset{}}
}

// Put stores a dataset under its ID, replacing any previous dataset
// with the same ID.
func (s *Store) Put(_ context.Context, ds creator.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[ds.ID]; !exists {
		s.order = append(s.order, ds.ID)
	}
	s.datasets[ds.ID] = ds
	return nil
}

// Get returns the dataset with the given ID.
func (s *Store) Get(_ context.Context, id string) (creator.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return creator.Dataset{}, domain.ErrDatasetNotFound
	}
	return ds, nil
}

// List returns all datasets in upload order.
func (s *Store) List(_ context.Context) ([]creator.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]creator.Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.datasets[id])
	}
	return out, nil
}

// Delete removes the dataset with the given ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return domain.ErrDatasetNotFound
	}
	delete(s.datasets, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
