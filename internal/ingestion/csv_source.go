package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"retail-clv-lab/internal/domain"
)

// Expected columns of the retail export. Header match is case-insensitive
// and order-independent.
const (
	colInvoiceNo   = "invoiceno"
	colStockCode   = "stockcode"
	colDescription = "description"
	colQuantity    = "quantity"
	colInvoiceDate = "invoicedate"
	colUnitPrice   = "unitprice"
	colCustomerID  = "customerid"
	colCountry     = "country"
)

// invoiceDateLayouts are tried in order when parsing invoice dates.
// The public dataset ships with US-style m/d/yyyy timestamps; re-exports
// commonly use ISO forms.
var invoiceDateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CSVSource reads raw transactions from a local CSV export.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Compile-time interface check.
var _ TransactionSource = (*CSVSource)(nil)

// Fetch reads and parses the whole file. Malformed records are dropped and
// counted; a missing file or missing required columns is fatal.
func (s *CSVSource) Fetch(ctx context.Context) ([]*domain.RawTransaction, DropStats, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, DropStats{}, fmt.Errorf("open csv source: %w", err)
	}
	defer f.Close()

	return parseCSV(ctx, f)
}

// parseCSV consumes a CSV stream with a header row.
func parseCSV(ctx context.Context, r io.Reader) ([]*domain.RawTransaction, DropStats, error) {
	var stats DropStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row length checked per record, short rows dropped

	header, err := reader.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read csv header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	var result []*domain.RawTransaction
	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Structurally broken row (bad quoting). Drop and continue.
			stats.ShortRow++
			continue
		}
		if len(row) != len(header) {
			stats.ShortRow++
			continue
		}

		tx, ok := parseRow(row, idx, &stats)
		if !ok {
			continue
		}
		result = append(result, tx)
	}

	return result, stats, nil
}

// columnIndex maps required column names to their header positions.
type columns struct {
	invoice, stock, description, quantity, date, price, customer, country int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}

	idx := columns{}
	required := []struct {
		name string
		dst  *int
	}{
		{colInvoiceNo, &idx.invoice},
		{colStockCode, &idx.stock},
		{colDescription, &idx.description},
		{colQuantity, &idx.quantity},
		{colInvoiceDate, &idx.date},
		{colUnitPrice, &idx.price},
		{colCustomerID, &idx.customer},
		{colCountry, &idx.country},
	}
	for _, req := range required {
		i, ok := pos[req.name]
		if !ok {
			return idx, fmt.Errorf("csv source missing required column %q", req.name)
		}
		*req.dst = i
	}
	return idx, nil
}

// parseRow converts one CSV row. Returns false when a field is malformed;
// stats records which one.
func parseRow(row []string, idx columns, stats *DropStats) (*domain.RawTransaction, bool) {
	orderDate, ok := parseInvoiceDate(row[idx.date])
	if !ok {
		stats.BadDate++
		return nil, false
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(row[idx.quantity]), 10, 64)
	if err != nil {
		stats.BadQuantity++
		return nil, false
	}

	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row[idx.price]), 64)
	if err != nil {
		stats.BadPrice++
		return nil, false
	}

	var customerID *string
	if id := strings.TrimSpace(row[idx.customer]); id != "" {
		customerID = &id
	}

	return &domain.RawTransaction{
		InvoiceID:   strings.TrimSpace(row[idx.invoice]),
		StockCode:   strings.TrimSpace(row[idx.stock]),
		Description: strings.TrimSpace(row[idx.description]),
		CustomerID:  customerID,
		Country:     strings.TrimSpace(row[idx.country]),
		OrderDate:   orderDate,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}, true
}

// parseInvoiceDate parses a timestamp and truncates it to UTC midnight.
// Aggregation works at daily granularity; the time of day is discarded here.
func parseInvoiceDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range invoiceDateLayouts {
		ts, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			continue
		}
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
