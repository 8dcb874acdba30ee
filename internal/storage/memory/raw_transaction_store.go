package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// RawTransactionStore is an in-memory implementation of storage.RawTransactionStore.
type RawTransactionStore struct {
	mu     sync.RWMutex
	data   []*domain.RawTransaction
	nextID int64
}

// NewRawTransactionStore creates a new in-memory raw transaction store.
func NewRawTransactionStore() *RawTransactionStore {
	return &RawTransactionStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.RawTransactionStore = (*RawTransactionStore)(nil)

// InsertBulk adds multiple transactions atomically.
func (s *RawTransactionStore) InsertBulk(_ context.Context, txs []*domain.RawTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	for _, tx := range txs {
		if tx == nil || tx.InvoiceID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		copied := *tx
		copied.ID = s.nextID
		s.nextID++
		s.data = append(s.data, &copied)
	}
	return nil
}

// GetAll retrieves every transaction, ordered by (order_date, invoice_id, stock_code).
func (s *RawTransactionStore) GetAll(_ context.Context) ([]*domain.RawTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RawTransaction, 0, len(s.data))
	for _, tx := range s.data {
		copied := *tx
		result = append(result, &copied)
	}

	sortTransactions(result)
	return result, nil
}

// GetByDateRange retrieves transactions with order_date in [start, end).
func (s *RawTransactionStore) GetByDateRange(_ context.Context, start, end time.Time) ([]*domain.RawTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RawTransaction
	for _, tx := range s.data {
		if !tx.OrderDate.Before(start) && tx.OrderDate.Before(end) {
			copied := *tx
			result = append(result, &copied)
		}
	}

	sortTransactions(result)
	return result, nil
}

// Count returns the number of stored transactions.
func (s *RawTransactionStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func sortTransactions(txs []*domain.RawTransaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].OrderDate.Equal(txs[j].OrderDate) {
			return txs[i].OrderDate.Before(txs[j].OrderDate)
		}
		if txs[i].InvoiceID != txs[j].InvoiceID {
			return txs[i].InvoiceID < txs[j].InvoiceID
		}
		return txs[i].StockCode < txs[j].StockCode
	})
}
