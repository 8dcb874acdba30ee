package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// DailyOrderStore implements storage.DailyOrderStore using PostgreSQL.
type DailyOrderStore struct {
	pool *Pool
}

// NewDailyOrderStore creates a new DailyOrderStore.
func NewDailyOrderStore(pool *Pool) *DailyOrderStore {
	return &DailyOrderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DailyOrderStore = (*DailyOrderStore)(nil)

// InsertBulk adds multiple orders atomically.
// Returns ErrDuplicateKey if any (customer_id, order_date) already exists.
func (s *DailyOrderStore) InsertBulk(ctx context.Context, orders []*domain.DailyOrder) error {
	if len(orders) == 0 {
		return nil
	}

	for _, o := range orders {
		if o == nil || !o.HasCustomer() {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO daily_orders (
			customer_id, order_date, country, total_quantity, total_revenue
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, o := range orders {
		_, err := tx.Exec(ctx, query,
			*o.CustomerID,
			o.OrderDate,
			o.Country,
			o.TotalQuantity,
			o.TotalRevenue,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert daily order in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every order, ordered by (customer_id, order_date).
func (s *DailyOrderStore) GetAll(ctx context.Context) ([]*domain.DailyOrder, error) {
	query := `
		SELECT customer_id, order_date, country, total_quantity, total_revenue
		FROM daily_orders
		ORDER BY customer_id ASC, order_date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all daily orders: %w", err)
	}
	defer rows.Close()

	return scanDailyOrders(rows)
}

// GetByCustomerID retrieves all orders for a customer, ordered by order_date ASC.
func (s *DailyOrderStore) GetByCustomerID(ctx context.Context, customerID string) ([]*domain.DailyOrder, error) {
	query := `
		SELECT customer_id, order_date, country, total_quantity, total_revenue
		FROM daily_orders
		WHERE customer_id = $1
		ORDER BY order_date ASC
	`

	rows, err := s.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("get daily orders by customer id: %w", err)
	}
	defer rows.Close()

	return scanDailyOrders(rows)
}

// GetByDateRange retrieves orders with order_date in [start, end).
func (s *DailyOrderStore) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.DailyOrder, error) {
	query := `
		SELECT customer_id, order_date, country, total_quantity, total_revenue
		FROM daily_orders
		WHERE order_date >= $1 AND order_date < $2
		ORDER BY customer_id ASC, order_date ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get daily orders by date range: %w", err)
	}
	defer rows.Close()

	return scanDailyOrders(rows)
}

// scanDailyOrders scans multiple rows into a slice of DailyOrder.
func scanDailyOrders(rows pgx.Rows) ([]*domain.DailyOrder, error) {
	var orders []*domain.DailyOrder

	for rows.Next() {
		var o domain.DailyOrder
		var customerID string

		err := rows.Scan(
			&customerID,
			&o.OrderDate,
			&o.Country,
			&o.TotalQuantity,
			&o.TotalRevenue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily order row: %w", err)
		}

		o.CustomerID = &customerID
		o.OrderDate = o.OrderDate.UTC()
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily order rows: %w", err)
	}

	return orders, nil
}
