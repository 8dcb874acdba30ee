package clickhouse

import (
	"context"
	"fmt"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

// FeatureRecordStore implements storage.FeatureRecordStore using ClickHouse.
type FeatureRecordStore struct {
	conn *Conn
}

// NewFeatureRecordStore creates a new FeatureRecordStore.
func NewFeatureRecordStore(conn *Conn) *FeatureRecordStore {
	return &FeatureRecordStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureRecordStore = (*FeatureRecordStore)(nil)

const featureRecordColumns = `
	customer_id, customer_country,
	n_purchases, avg_purchase_size, avg_purchase_revenue,
	customer_age, days_since_last_purchase,
	target_monetary_value, data_split
`

// InsertBulk adds multiple records. Fails entire batch on duplicate.
func (s *FeatureRecordStore) InsertBulk(ctx context.Context, records []*domain.CustomerFeatureRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, exists := seen[r.CustomerID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[r.CustomerID] = struct{}{}
	}

	// ClickHouse MergeTree does not enforce uniqueness at insert time,
	// so check against existing rows before sending the batch.
	for _, r := range records {
		exists, err := s.exists(ctx, r.CustomerID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO customer_features (
			customer_id, customer_country,
			n_purchases, avg_purchase_size, avg_purchase_revenue,
			customer_age, days_since_last_purchase,
			target_monetary_value, data_split
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.CustomerID, r.CustomerCountry,
			uint32(r.NPurchases), r.AvgPurchaseSize, r.AvgPurchaseRevenue,
			uint32(r.CustomerAgeDays), uint32(r.DaysSinceLastPurchase),
			r.TargetMonetaryValue, string(r.DataSplit),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every record, ordered by customer_id ASC.
func (s *FeatureRecordStore) GetAll(ctx context.Context) ([]*domain.CustomerFeatureRecord, error) {
	query := `
		SELECT ` + featureRecordColumns + `
		FROM customer_features
		ORDER BY customer_id ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all feature records: %w", err)
	}
	defer rows.Close()

	return scanFeatureRecords(rows)
}

// GetByCustomerID retrieves the record for a customer.
// Returns ErrNotFound if the customer has no record.
func (s *FeatureRecordStore) GetByCustomerID(ctx context.Context, customerID string) (*domain.CustomerFeatureRecord, error) {
	query := `
		SELECT ` + featureRecordColumns + `
		FROM customer_features
		WHERE customer_id = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query by customer id: %w", err)
	}
	defer rows.Close()

	records, err := scanFeatureRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records[0], nil
}

// GetBySplit retrieves all records assigned to a split, ordered by customer_id ASC.
func (s *FeatureRecordStore) GetBySplit(ctx context.Context, split domain.DataSplit) ([]*domain.CustomerFeatureRecord, error) {
	query := `
		SELECT ` + featureRecordColumns + `
		FROM customer_features
		WHERE data_split = ?
		ORDER BY customer_id ASC
	`

	rows, err := s.conn.Query(ctx, query, string(split))
	if err != nil {
		return nil, fmt.Errorf("query by split: %w", err)
	}
	defer rows.Close()

	return scanFeatureRecords(rows)
}

// exists checks if a record with the given customer_id exists.
func (s *FeatureRecordStore) exists(ctx context.Context, customerID string) (bool, error) {
	query := `
		SELECT count(*) FROM customer_features
		WHERE customer_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, customerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts driver row iteration for scan helpers.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanFeatureRecords scans multiple rows into a slice.
func scanFeatureRecords(rows chRows) ([]*domain.CustomerFeatureRecord, error) {
	var records []*domain.CustomerFeatureRecord

	for rows.Next() {
		var r domain.CustomerFeatureRecord
		var nPurchases, customerAge, daysSinceLast uint32
		var dataSplit string

		err := rows.Scan(
			&r.CustomerID, &r.CustomerCountry,
			&nPurchases, &r.AvgPurchaseSize, &r.AvgPurchaseRevenue,
			&customerAge, &daysSinceLast,
			&r.TargetMonetaryValue, &dataSplit,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature record row: %w", err)
		}

		r.NPurchases = int(nPurchases)
		r.CustomerAgeDays = int(customerAge)
		r.DaysSinceLastPurchase = int(daysSinceLast)
		r.DataSplit = domain.DataSplit(dataSplit)

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature record rows: %w", err)
	}

	return records, nil
}
