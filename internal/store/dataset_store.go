// Package store holds the dataset currently served. Readers always see a
// complete, immutable dataset; publishing swaps it atomically.
package store

import (
	"sync/atomic"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// DatasetStore is safe for concurrent use. The zero value holds no dataset.
type DatasetStore struct {
	current atomic.Pointer[models.Dataset]
}

// NewDatasetStore returns an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Publish replaces the served dataset. The dataset must not be modified
// afterwards.
func (s *DatasetStore) Publish(dataset *models.Dataset) {
	s.current.Store(dataset)
}

// Current returns the served dataset, if any.
func (s *DatasetStore) Current() (*models.Dataset, bool) {
	dataset := s.current.Load()
	return dataset, dataset != nil
}

// Reset drops the served dataset.
func (s *DatasetStore) Reset() {
	s.current.Store(nil)
}
