package features

import (
	"testing"
	"time"

	"retail-clv-lab/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

func order(customer string, day time.Time, qty int64, revenue float64) *domain.DailyOrder {
	return &domain.DailyOrder{
		CustomerID:    strPtr(customer),
		OrderDate:     day,
		Country:       "United Kingdom",
		TotalQuantity: qty,
		TotalRevenue:  revenue,
	}
}

func testWindow() domain.StudyWindow {
	return domain.StudyWindow{
		StudyStart: date(2011, 6, 1),
		FeatureEnd: date(2011, 9, 1),
		StudyEnd:   date(2011, 12, 1),
	}
}

func TestComputeFeatureRecords_RFMScenario(t *testing.T) {
	w := testWindow()

	// Two feature-window orders of revenue 50 and 70, one target-window
	// order of revenue 40.
	orders := []*domain.DailyOrder{
		order("17850", date(2011, 6, 10), 10, 50),
		order("17850", date(2011, 8, 20), 20, 70),
		order("17850", date(2011, 10, 5), 5, 40),
	}

	records := ComputeFeatureRecords(orders, w)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.NPurchases != 2 {
		t.Errorf("NPurchases = %d, want 2", r.NPurchases)
	}
	if r.AvgPurchaseSize != 15 {
		t.Errorf("AvgPurchaseSize = %f, want 15", r.AvgPurchaseSize)
	}
	if r.AvgPurchaseRevenue != 60 {
		t.Errorf("AvgPurchaseRevenue = %f, want 60", r.AvgPurchaseRevenue)
	}
	if r.CustomerAgeDays != 83 {
		t.Errorf("CustomerAgeDays = %d, want 83", r.CustomerAgeDays)
	}
	if r.DaysSinceLastPurchase != 12 {
		t.Errorf("DaysSinceLastPurchase = %d, want 12", r.DaysSinceLastPurchase)
	}
	if r.TargetMonetaryValue != 160 {
		t.Errorf("TargetMonetaryValue = %f, want 160", r.TargetMonetaryValue)
	}
	if r.DataSplit != "" {
		t.Errorf("DataSplit should be left empty, got %q", r.DataSplit)
	}
}

func TestComputeFeatureRecords_ColdStartExcluded(t *testing.T) {
	w := testWindow()

	// Customer purchases only inside the target window.
	orders := []*domain.DailyOrder{
		order("13047", date(2011, 10, 5), 5, 40),
	}

	records := ComputeFeatureRecords(orders, w)
	if len(records) != 0 {
		t.Fatalf("Cold-start customer must yield no record, got %d", len(records))
	}
}

func TestComputeFeatureRecords_OrdersOutsideStudyWindowIgnored(t *testing.T) {
	w := testWindow()

	orders := []*domain.DailyOrder{
		order("17850", date(2011, 5, 31), 10, 999), // before study start
		order("17850", date(2011, 6, 10), 10, 50),
		order("17850", date(2011, 12, 1), 10, 999), // on study end, exclusive
	}

	records := ComputeFeatureRecords(orders, w)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.NPurchases != 1 {
		t.Errorf("NPurchases = %d, want 1", r.NPurchases)
	}
	if r.TargetMonetaryValue != 50 {
		t.Errorf("TargetMonetaryValue = %f, want 50", r.TargetMonetaryValue)
	}
}

func TestComputeFeatureRecords_PurchaseOnFeatureEndIsTargetOnly(t *testing.T) {
	w := testWindow()

	orders := []*domain.DailyOrder{
		order("17850", date(2011, 6, 10), 10, 50),
		order("17850", date(2011, 9, 1), 10, 30), // exactly feature end
	}

	records := ComputeFeatureRecords(orders, w)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.NPurchases != 1 {
		t.Errorf("NPurchases = %d, want 1", r.NPurchases)
	}
	if r.TargetMonetaryValue != 80 {
		t.Errorf("TargetMonetaryValue = %f, want 80", r.TargetMonetaryValue)
	}
}

func TestComputeFeatureRecords_AgeAtLeastRecency(t *testing.T) {
	w := testWindow()

	orders := []*domain.DailyOrder{
		order("17850", date(2011, 6, 10), 1, 10),
		order("17850", date(2011, 8, 20), 1, 10),
		order("13047", date(2011, 7, 1), 1, 10),
	}

	for _, r := range ComputeFeatureRecords(orders, w) {
		if r.CustomerAgeDays < r.DaysSinceLastPurchase {
			t.Errorf("Customer %s: age %d < recency %d",
				r.CustomerID, r.CustomerAgeDays, r.DaysSinceLastPurchase)
		}
		if r.CustomerAgeDays < 0 || r.DaysSinceLastPurchase < 0 {
			t.Errorf("Customer %s: negative day counts %d/%d",
				r.CustomerID, r.CustomerAgeDays, r.DaysSinceLastPurchase)
		}
	}
}

func TestComputeFeatureRecords_SortedByCustomerID(t *testing.T) {
	w := testWindow()

	orders := []*domain.DailyOrder{
		order("17850", date(2011, 6, 10), 1, 10),
		order("12583", date(2011, 6, 10), 1, 10),
		order("13047", date(2011, 6, 10), 1, 10),
	}

	records := ComputeFeatureRecords(orders, w)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CustomerID >= records[i].CustomerID {
			t.Errorf("Records not sorted: %s before %s",
				records[i-1].CustomerID, records[i].CustomerID)
		}
	}
}

func TestComputeFeatureRecords_CountryFromLatestOrder(t *testing.T) {
	w := testWindow()

	o1 := order("17850", date(2011, 6, 10), 1, 10)
	o1.Country = "France"
	o2 := order("17850", date(2011, 8, 20), 1, 10)
	o2.Country = "United Kingdom"

	// Reversed input must not change the outcome.
	records := ComputeFeatureRecords([]*domain.DailyOrder{o2, o1}, w)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].CustomerCountry != "United Kingdom" {
		t.Errorf("CustomerCountry = %q, want United Kingdom", records[0].CustomerCountry)
	}
}
