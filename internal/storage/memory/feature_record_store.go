package memory

import (
	"context"
	"sort"
	"sync"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// FeatureRecordStore is an in-memory implementation of storage.FeatureRecordStore.
type FeatureRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CustomerFeatureRecord // keyed by customer_id
}

// NewFeatureRecordStore creates a new in-memory feature record store.
func NewFeatureRecordStore() *FeatureRecordStore {
	return &FeatureRecordStore{
		data: make(map[string]*domain.CustomerFeatureRecord),
	}
}

// Compile-time interface check.
var _ storage.FeatureRecordStore = (*FeatureRecordStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *FeatureRecordStore) InsertBulk(_ context.Context, records []*domain.CustomerFeatureRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))

	for _, r := range records {
		if r == nil || r.CustomerID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.CustomerID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.CustomerID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.CustomerID] = struct{}{}
	}

	for _, r := range records {
		copied := *r
		s.data[r.CustomerID] = &copied
	}
	return nil
}

// GetAll retrieves every record, ordered by customer_id ASC.
func (s *FeatureRecordStore) GetAll(_ context.Context) ([]*domain.CustomerFeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.CustomerFeatureRecord, 0, len(s.data))
	for _, r := range s.data {
		copied := *r
		result = append(result, &copied)
	}

	sortRecords(result)
	return result, nil
}

// GetByCustomerID retrieves one record. Returns ErrNotFound if not exists.
func (s *FeatureRecordStore) GetByCustomerID(_ context.Context, customerID string) (*domain.CustomerFeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[customerID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := *r
	return &copied, nil
}

// GetBySplit retrieves all records in a split, ordered by customer_id ASC.
func (s *FeatureRecordStore) GetBySplit(_ context.Context, split domain.DataSplit) ([]*domain.CustomerFeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CustomerFeatureRecord
	for _, r := range s.data {
		if r.DataSplit == split {
			copied := *r
			result = append(result, &copied)
		}
	}

	sortRecords(result)
	return result, nil
}

func sortRecords(records []*domain.CustomerFeatureRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CustomerID < records[j].CustomerID
	})
}
