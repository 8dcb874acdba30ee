package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// DailyOrderStore is an in-memory implementation of storage.DailyOrderStore.
type DailyOrderStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailyOrder // keyed by (customer_id, order_date)
}

// NewDailyOrderStore creates a new in-memory daily order store.
func NewDailyOrderStore() *DailyOrderStore {
	return &DailyOrderStore{
		data: make(map[string]*domain.DailyOrder),
	}
}

// Compile-time interface check.
var _ storage.DailyOrderStore = (*DailyOrderStore)(nil)

// orderKey generates a unique key for a daily order.
func orderKey(customerID string, orderDate time.Time) string {
	return fmt.Sprintf("%s|%s", customerID, orderDate.Format("2006-01-02"))
}

// InsertBulk adds multiple orders atomically. Fails entire batch on any duplicate.
func (s *DailyOrderStore) InsertBulk(_ context.Context, orders []*domain.DailyOrder) error {
	if len(orders) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(orders))

	for _, o := range orders {
		if o == nil || !o.HasCustomer() {
			return storage.ErrInvalidInput
		}
		key := orderKey(*o.CustomerID, o.OrderDate)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, o := range orders {
		copied := *o
		id := *o.CustomerID
		copied.CustomerID = &id
		s.data[orderKey(id, o.OrderDate)] = &copied
	}
	return nil
}

// GetAll retrieves every order, ordered by (customer_id, order_date).
func (s *DailyOrderStore) GetAll(_ context.Context) ([]*domain.DailyOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.DailyOrder, 0, len(s.data))
	for _, o := range s.data {
		result = append(result, copyOrder(o))
	}

	sortOrders(result)
	return result, nil
}

// GetByCustomerID retrieves all orders for a customer, ordered by order_date ASC.
func (s *DailyOrderStore) GetByCustomerID(_ context.Context, customerID string) ([]*domain.DailyOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyOrder
	for _, o := range s.data {
		if *o.CustomerID == customerID {
			result = append(result, copyOrder(o))
		}
	}

	sortOrders(result)
	return result, nil
}

// GetByDateRange retrieves orders with order_date in [start, end).
func (s *DailyOrderStore) GetByDateRange(_ context.Context, start, end time.Time) ([]*domain.DailyOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyOrder
	for _, o := range s.data {
		if !o.OrderDate.Before(start) && o.OrderDate.Before(end) {
			result = append(result, copyOrder(o))
		}
	}

	sortOrders(result)
	return result, nil
}

func copyOrder(o *domain.DailyOrder) *domain.DailyOrder {
	copied := *o
	if o.CustomerID != nil {
		id := *o.CustomerID
		copied.CustomerID = &id
	}
	return &copied
}

func sortOrders(orders []*domain.DailyOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if *orders[i].CustomerID != *orders[j].CustomerID {
			return *orders[i].CustomerID < *orders[j].CustomerID
		}
		return orders[i].OrderDate.Before(orders[j].OrderDate)
	})
}
