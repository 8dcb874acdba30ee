package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// RawTransactionStore implements storage.RawTransactionStore using PostgreSQL.
type RawTransactionStore struct {
	pool *Pool
}

// NewRawTransactionStore creates a new RawTransactionStore.
func NewRawTransactionStore(pool *Pool) *RawTransactionStore {
	return &RawTransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RawTransactionStore = (*RawTransactionStore)(nil)

const rawTransactionColumns = `
	id, invoice_id, stock_code, description, customer_id, country, order_date, quantity, unit_price, created_at
`

// InsertBulk adds multiple transactions atomically.
func (s *RawTransactionStore) InsertBulk(ctx context.Context, txs []*domain.RawTransaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO raw_transactions (
			invoice_id, stock_code, description, customer_id, country, order_date, quantity, unit_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, t := range txs {
		_, err := tx.Exec(ctx, query,
			t.InvoiceID,
			t.StockCode,
			t.Description,
			t.CustomerID,
			t.Country,
			t.OrderDate,
			t.Quantity,
			t.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert raw transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every transaction, ordered by (order_date, invoice_id, stock_code).
func (s *RawTransactionStore) GetAll(ctx context.Context) ([]*domain.RawTransaction, error) {
	query := `
		SELECT ` + rawTransactionColumns + `
		FROM raw_transactions
		ORDER BY order_date ASC, invoice_id ASC, stock_code ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all raw transactions: %w", err)
	}
	defer rows.Close()

	return scanRawTransactions(rows)
}

// GetByDateRange retrieves transactions with order_date in [start, end).
func (s *RawTransactionStore) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.RawTransaction, error) {
	query := `
		SELECT ` + rawTransactionColumns + `
		FROM raw_transactions
		WHERE order_date >= $1 AND order_date < $2
		ORDER BY order_date ASC, invoice_id ASC, stock_code ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get raw transactions by date range: %w", err)
	}
	defer rows.Close()

	return scanRawTransactions(rows)
}

// Count returns the number of stored transactions.
func (s *RawTransactionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM raw_transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count raw transactions: %w", err)
	}
	return count, nil
}

// scanRawTransactions scans multiple rows into a slice of RawTransaction.
func scanRawTransactions(rows pgx.Rows) ([]*domain.RawTransaction, error) {
	var txs []*domain.RawTransaction

	for rows.Next() {
		var t domain.RawTransaction

		err := rows.Scan(
			&t.ID,
			&t.InvoiceID,
			&t.StockCode,
			&t.Description,
			&t.CustomerID,
			&t.Country,
			&t.OrderDate,
			&t.Quantity,
			&t.UnitPrice,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan raw transaction row: %w", err)
		}

		t.OrderDate = t.OrderDate.UTC()
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw transaction rows: %w", err)
	}

	return txs, nil
}
