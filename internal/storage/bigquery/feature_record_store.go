package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"retail-clv-lab/internal/domain"
)

// featureRow mirrors the customer_features BigQuery schema.
type featureRow struct {
	CustomerID            string    `bigquery:"customer_id"`
	CustomerCountry       string    `bigquery:"customer_country"`
	NPurchases            int64     `bigquery:"n_purchases"`
	AvgPurchaseSize       float64   `bigquery:"avg_purchase_size"`
	AvgPurchaseRevenue    float64   `bigquery:"avg_purchase_revenue"`
	CustomerAge           int64     `bigquery:"customer_age"`
	DaysSinceLastPurchase int64     `bigquery:"days_since_last_purchase"`
	TargetMonetaryValue   float64   `bigquery:"target_monetary_value"`
	DataSplit             string    `bigquery:"data_split"`
	ExportedAt            time.Time `bigquery:"exported_at"`
}

// FeatureRecordExporter writes customer feature records to a BigQuery table.
// BigQuery is an export target, not a primary store, so this type does not
// implement storage.FeatureRecordStore.
type FeatureRecordExporter struct {
	client  *Client
	dataset string
	table   string
	now     func() time.Time
}

// NewFeatureRecordExporter creates a new FeatureRecordExporter.
func NewFeatureRecordExporter(client *Client, dataset, table string) *FeatureRecordExporter {
	return &FeatureRecordExporter{
		client:  client,
		dataset: dataset,
		table:   table,
		now:     time.Now,
	}
}

// WithClock overrides the export timestamp source. Used in tests.
func (e *FeatureRecordExporter) WithClock(now func() time.Time) *FeatureRecordExporter {
	e.now = now
	return e
}

// EnsureTable creates the dataset and table if they do not exist.
func (e *FeatureRecordExporter) EnsureTable(ctx context.Context) error {
	ds := e.client.Dataset(e.dataset)
	if _, err := ds.Metadata(ctx); err != nil {
		if !isNotFoundError(err) {
			return fmt.Errorf("get dataset metadata: %w", err)
		}
		if err := ds.Create(ctx, &bigquery.DatasetMetadata{}); err != nil {
			return fmt.Errorf("create dataset %s: %w", e.dataset, err)
		}
	}

	table := ds.Table(e.table)
	if _, err := table.Metadata(ctx); err != nil {
		if !isNotFoundError(err) {
			return fmt.Errorf("get table metadata: %w", err)
		}
		schema, err := bigquery.InferSchema(featureRow{})
		if err != nil {
			return fmt.Errorf("infer table schema: %w", err)
		}
		if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
			return fmt.Errorf("create table %s: %w", e.table, err)
		}
	}

	return nil
}

// Export writes the records via the streaming inserter.
func (e *FeatureRecordExporter) Export(ctx context.Context, records []*domain.CustomerFeatureRecord) error {
	if len(records) == 0 {
		return nil
	}

	exportedAt := e.now().UTC()
	rows := make([]*featureRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &featureRow{
			CustomerID:            r.CustomerID,
			CustomerCountry:       r.CustomerCountry,
			NPurchases:            int64(r.NPurchases),
			AvgPurchaseSize:       r.AvgPurchaseSize,
			AvgPurchaseRevenue:    r.AvgPurchaseRevenue,
			CustomerAge:           int64(r.CustomerAgeDays),
			DaysSinceLastPurchase: int64(r.DaysSinceLastPurchase),
			TargetMonetaryValue:   r.TargetMonetaryValue,
			DataSplit:             string(r.DataSplit),
			ExportedAt:            exportedAt,
		})
	}

	inserter := e.client.Dataset(e.dataset).Table(e.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("insert feature rows: %w", err)
	}

	return nil
}

// CountBySplit returns the number of exported rows per split. Used to verify
// an export run against the source store.
func (e *FeatureRecordExporter) CountBySplit(ctx context.Context) (map[domain.DataSplit]int, error) {
	q := e.client.Query(fmt.Sprintf(`
		SELECT data_split, COUNT(*) AS n
		FROM %s.%s
		GROUP BY data_split
	`, e.dataset, e.table))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read split counts: %w", err)
	}

	counts := make(map[domain.DataSplit]int)
	for {
		var row struct {
			DataSplit string `bigquery:"data_split"`
			N         int64  `bigquery:"n"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate split counts: %w", err)
		}
		counts[domain.DataSplit(row.DataSplit)] = int(row.N)
	}

	return counts, nil
}
