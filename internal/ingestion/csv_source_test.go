package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"retail-clv-lab/internal/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test csv: %v", err)
	}
	return path
}

const csvHeader = "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country\n"

func TestCSVSource_Fetch(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"+
		"536366,71053,WHITE METAL LANTERN,4,12/1/2010 8:28,3.39,17850,United Kingdom\n")

	txs, drops, err := NewCSVSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if drops.Dropped() != 0 {
		t.Errorf("Expected no drops, got %+v", drops)
	}
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}

	tx := txs[0]
	if tx.InvoiceID != "536365" || tx.StockCode != "85123A" {
		t.Errorf("Unexpected invoice/stock: %s/%s", tx.InvoiceID, tx.StockCode)
	}
	if tx.Quantity != 6 || tx.UnitPrice != 2.55 {
		t.Errorf("Unexpected quantity/price: %d/%f", tx.Quantity, tx.UnitPrice)
	}
	if tx.CustomerID == nil || *tx.CustomerID != "17850" {
		t.Errorf("CustomerID = %v, want 17850", tx.CustomerID)
	}

	// Invoice timestamp must be truncated to UTC midnight.
	want := time.Date(2010, 12, 1, 0, 0, 0, 0, time.UTC)
	if !tx.OrderDate.Equal(want) {
		t.Errorf("OrderDate = %v, want %v", tx.OrderDate, want)
	}
}

func TestCSVSource_NullableCustomer(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,,United Kingdom\n")

	txs, _, err := NewCSVSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txs))
	}
	if txs[0].CustomerID != nil {
		t.Errorf("Anonymous line must carry a nil CustomerID, got %q", *txs[0].CustomerID)
	}
}

func TestCSVSource_MalformedRowsDropped(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"536365,85123A,OK,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"+
		"536366,71053,SHORT ROW,4\n"+
		"536367,22728,BAD DATE,4,yesterday,3.39,17850,United Kingdom\n"+
		"536368,21730,BAD QTY,lots,12/1/2010 8:34,4.25,17850,United Kingdom\n"+
		"536369,22633,BAD PRICE,6,12/1/2010 8:35,free,17850,United Kingdom\n")

	txs, drops, err := NewCSVSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 surviving transaction, got %d", len(txs))
	}
	if drops.ShortRow != 1 {
		t.Errorf("ShortRow = %d, want 1", drops.ShortRow)
	}
	if drops.BadDate != 1 {
		t.Errorf("BadDate = %d, want 1", drops.BadDate)
	}
	if drops.BadQuantity != 1 {
		t.Errorf("BadQuantity = %d, want 1", drops.BadQuantity)
	}
	if drops.BadPrice != 1 {
		t.Errorf("BadPrice = %d, want 1", drops.BadPrice)
	}
}

func TestCSVSource_HeaderCaseAndOrderInsensitive(t *testing.T) {
	path := writeCSV(t, "country,customerid,UNITPRICE,invoicedate,QUANTITY,description,stockcode,INVOICENO\n"+
		"France,12583,7.65,2011-06-10 10:00:00,12,POSTAGE,POST,536370\n")

	txs, _, err := NewCSVSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Country != "France" || txs[0].InvoiceID != "536370" {
		t.Errorf("Columns mapped wrong: %+v", txs[0])
	}
}

func TestCSVSource_MissingColumnFatal(t *testing.T) {
	path := writeCSV(t, "InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,Country\n"+
		"536365,85123A,NO CUSTOMER COLUMN,6,12/1/2010 8:26,2.55,United Kingdom\n")

	_, _, err := NewCSVSource(path).Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "customerid") {
		t.Errorf("Expected missing column error, got %v", err)
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, _, err := NewCSVSource("/nonexistent/export.csv").Fetch(context.Background())
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCSVSource_CancelledContext(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewCSVSource(path).Fetch(ctx)
	if err == nil {
		t.Error("Expected context error")
	}
}

func TestRunner_Run(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,17850,United Kingdom\n"+
		"536366,71053,BAD DATE,4,not a date,3.39,17850,United Kingdom\n")

	rawStore := &captureStore{}
	runner := NewRunner(RunnerOptions{
		Source:   NewCSVSource(path),
		RawStore: rawStore,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Ingested != 1 {
		t.Errorf("Ingested = %d, want 1", result.Ingested)
	}
	if result.Drops.BadDate != 1 {
		t.Errorf("BadDate = %d, want 1", result.Drops.BadDate)
	}
	if len(rawStore.inserted) != 1 {
		t.Errorf("Store received %d transactions, want 1", len(rawStore.inserted))
	}
}

// captureStore records InsertBulk calls. Reads are unused by the runner.
type captureStore struct {
	inserted []*domain.RawTransaction
}

func (s *captureStore) InsertBulk(_ context.Context, txs []*domain.RawTransaction) error {
	s.inserted = append(s.inserted, txs...)
	return nil
}

func (s *captureStore) GetAll(context.Context) ([]*domain.RawTransaction, error) {
	return s.inserted, nil
}

func (s *captureStore) GetByDateRange(context.Context, time.Time, time.Time) ([]*domain.RawTransaction, error) {
	return nil, nil
}

func (s *captureStore) Count(context.Context) (int64, error) {
	return int64(len(s.inserted)), nil
}
