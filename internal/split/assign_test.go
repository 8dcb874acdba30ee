package split

import (
	"fmt"
	"testing"

	"retail-clv-lab/internal/domain"
)

func TestAssign_Deterministic(t *testing.T) {
	ids := []string{"12346", "13047", "17850", "anonymous-ish", ""}

	for _, id := range ids {
		first := Assign(id)
		for i := 0; i < 10; i++ {
			if got := Assign(id); got != first {
				t.Errorf("Assign(%q) not deterministic: %s then %s", id, first, got)
			}
		}
	}
}

func TestAssign_ValidSplits(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("customer-%d", i)
		switch Assign(id) {
		case domain.SplitTrain, domain.SplitValidate, domain.SplitTest:
		default:
			t.Fatalf("Assign(%q) returned invalid split", id)
		}
	}
}

func TestAssign_RoughProportions(t *testing.T) {
	const n = 20000
	counts := map[domain.DataSplit]int{}
	for i := 0; i < n; i++ {
		counts[Assign(fmt.Sprintf("customer-%d", i))]++
	}

	// Expected 70/15/15. SHA-256 distributes uniformly; allow 3% absolute drift.
	checks := []struct {
		split domain.DataSplit
		want  float64
	}{
		{domain.SplitTrain, 0.70},
		{domain.SplitValidate, 0.15},
		{domain.SplitTest, 0.15},
	}
	for _, c := range checks {
		got := float64(counts[c.split]) / n
		if got < c.want-0.03 || got > c.want+0.03 {
			t.Errorf("%s fraction = %.4f, want %.2f ± 0.03", c.split, got, c.want)
		}
	}
}

func TestAssignRecords(t *testing.T) {
	records := []*domain.CustomerFeatureRecord{
		{CustomerID: "12346"},
		{CustomerID: "13047"},
		{CustomerID: "17850"},
	}

	AssignRecords(records)

	for _, r := range records {
		if r.DataSplit == "" {
			t.Errorf("Customer %s left unassigned", r.CustomerID)
		}
		if r.DataSplit != Assign(r.CustomerID) {
			t.Errorf("Customer %s: split %s does not match Assign", r.CustomerID, r.DataSplit)
		}
	}
}
