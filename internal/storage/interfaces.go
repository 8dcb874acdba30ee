package storage

import (
	"context"
	"time"

	"retail-clv-lab/internal/domain"
)

// RawTransactionStore provides access to raw_transactions storage.
// The raw table is append-only; identical line items may legitimately repeat
// in the source export, so no uniqueness is enforced.
type RawTransactionStore interface {
	// InsertBulk adds multiple transactions atomically.
	InsertBulk(ctx context.Context, txs []*domain.RawTransaction) error

	// GetAll retrieves every transaction, ordered by (order_date, invoice_id, stock_code).
	GetAll(ctx context.Context) ([]*domain.RawTransaction, error)

	// GetByDateRange retrieves transactions with order_date in [start, end).
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.RawTransaction, error)

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int64, error)
}

// DailyOrderStore provides access to daily_orders storage.
// One row per (customer_id, order_date); only filtered orders are stored.
type DailyOrderStore interface {
	// InsertBulk adds multiple orders atomically.
	// Returns ErrDuplicateKey if any (customer_id, order_date) already exists.
	InsertBulk(ctx context.Context, orders []*domain.DailyOrder) error

	// GetAll retrieves every order, ordered by (customer_id, order_date).
	GetAll(ctx context.Context) ([]*domain.DailyOrder, error)

	// GetByCustomerID retrieves all orders for a customer, ordered by order_date ASC.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.DailyOrder, error)

	// GetByDateRange retrieves orders with order_date in [start, end),
	// ordered by (customer_id, order_date).
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.DailyOrder, error)
}

// FeatureRecordStore provides access to customer_features storage.
type FeatureRecordStore interface {
	// InsertBulk adds multiple records atomically.
	// Returns ErrDuplicateKey if any customer_id already exists.
	InsertBulk(ctx context.Context, records []*domain.CustomerFeatureRecord) error

	// GetAll retrieves every record, ordered by customer_id ASC.
	GetAll(ctx context.Context) ([]*domain.CustomerFeatureRecord, error)

	// GetByCustomerID retrieves one record. Returns ErrNotFound if not exists.
	GetByCustomerID(ctx context.Context, customerID string) (*domain.CustomerFeatureRecord, error)

	// GetBySplit retrieves all records in a split, ordered by customer_id ASC.
	GetBySplit(ctx context.Context, split domain.DataSplit) ([]*domain.CustomerFeatureRecord, error)
}
