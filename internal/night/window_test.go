package night

import (
	"fmt"
	"testing"
)

func makeNights(count int) []Night {
	nights := make([]Night, count)
	for i := range nights {
		nights[i] = Night{
			Date:             fmt.Sprintf("2024-10-%02d", i+1),
			TotalSleepHours:  7.5,
			NonREMSleepHours: 7.5,
		}
	}
	return nights
}

func TestWindowReplaceIsWholesale(t *testing.T) {
	t.Parallel()

	w := NewWindow()
	w.Replace(makeNights(5))
	w.Replace([]Night{{Date: "2024-12-01", TotalSleepHours: 8}})

	got := w.Recent(MaxNights)
	if len(got) != 1 {
		t.Fatalf("Recent() = %d nights, want 1 (second ingest must fully replace the first)", len(got))
	}
	if got[0].Date != "2024-12-01" {
		t.Errorf("Recent()[0].Date = %q, want 2024-12-01", got[0].Date)
	}
}

func TestWindowRecentCapAndOrder(t *testing.T) {
	t.Parallel()

	w := NewWindow()

	// insert out of order; Replace must sort ascending
	nights := makeNights(31)
	nights[0], nights[30] = nights[30], nights[0]
	w.Replace(nights)

	got := w.Recent(MaxNights)
	if len(got) != MaxNights {
		t.Fatalf("Recent(%d) = %d nights, want %d", MaxNights, len(got), MaxNights)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Date >= got[i].Date {
			t.Fatalf("Recent() not strictly ascending: %q then %q", got[i-1].Date, got[i].Date)
		}
	}
	// oldest night (10-01) falls off the window
	if got[0].Date != "2024-10-02" {
		t.Errorf("Recent()[0].Date = %q, want 2024-10-02", got[0].Date)
	}
}

func TestWindowEmpty(t *testing.T) {
	t.Parallel()

	w := NewWindow()
	if got := w.Recent(MaxNights); len(got) != 0 {
		t.Errorf("Recent() on fresh window = %d nights, want 0", len(got))
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d, want 0", w.Len())
	}
}
