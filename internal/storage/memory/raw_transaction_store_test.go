package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"retail-clv-lab/internal/domain"
	"retail-clv-lab/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

func rawTx(invoice, stock string, day time.Time) *domain.RawTransaction {
	return &domain.RawTransaction{
		InvoiceID:  invoice,
		StockCode:  stock,
		CustomerID: strPtr("17850"),
		OrderDate:  day,
		Quantity:   6,
		UnitPrice:  2.55,
	}
}

func TestRawTransactionStore_InsertAndGetAll(t *testing.T) {
	store := NewRawTransactionStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.RawTransaction{
		rawTx("536366", "71053", date(2010, 12, 2)),
		rawTx("536365", "85123A", date(2010, 12, 1)),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(all))
	}
	if all[0].InvoiceID != "536365" {
		t.Errorf("Expected date ordering, got %s first", all[0].InvoiceID)
	}
	if all[0].ID == 0 || all[1].ID == 0 {
		t.Error("Expected assigned IDs")
	}
}

func TestRawTransactionStore_DuplicateLinesAllowed(t *testing.T) {
	store := NewRawTransactionStore()
	ctx := context.Background()

	tx := rawTx("536365", "85123A", date(2010, 12, 1))
	if err := store.InsertBulk(ctx, []*domain.RawTransaction{tx, tx}); err != nil {
		t.Fatalf("Identical line items must be accepted: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestRawTransactionStore_InvalidInput(t *testing.T) {
	store := NewRawTransactionStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.RawTransaction{{StockCode: "85123A"}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing invoice, got %v", err)
	}
}

func TestRawTransactionStore_GetByDateRange(t *testing.T) {
	store := NewRawTransactionStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.RawTransaction{
		rawTx("536365", "85123A", date(2010, 12, 1)),
		rawTx("536370", "22728", date(2011, 6, 10)),
		rawTx("536399", "71053", date(2011, 9, 1)),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	// End is exclusive.
	got, err := store.GetByDateRange(ctx, date(2010, 12, 1), date(2011, 9, 1))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 transactions in range, got %d", len(got))
	}
	for _, tx := range got {
		if tx.OrderDate.Equal(date(2011, 9, 1)) {
			t.Error("Range end must be exclusive")
		}
	}
}

func TestRawTransactionStore_CopiesOnRead(t *testing.T) {
	store := NewRawTransactionStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.RawTransaction{rawTx("536365", "85123A", date(2010, 12, 1))}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	first, _ := store.GetAll(ctx)
	first[0].Quantity = 9999

	second, _ := store.GetAll(ctx)
	if second[0].Quantity == 9999 {
		t.Error("Mutating a returned transaction must not affect the store")
	}
}
