package socialblade

import (
	"testing"
	"time"
)

func TestFoldDailyWindows(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Cumulative totals; entries deliberately out of order.
	daily := []DailyEntry{
		{Date: "2024-06-01", Views: 2000000},
		{Date: "2024-03-03", Views: 1000000},
		{Date: "2024-05-18", Views: 1860000},
		{Date: "2024-05-02", Views: 1600000},
	}

	stats := FoldDaily(daily, now)

	if !stats.Available {
		t.Fatal("expected stats to be available")
	}
	if stats.TotalViews14d != 140000 {
		t.Errorf("14d total = %d, want 140000", stats.TotalViews14d)
	}
	if stats.TotalViews30d != 400000 {
		t.Errorf("30d total = %d, want 400000", stats.TotalViews30d)
	}
	if stats.TotalViews90d != 1000000 {
		t.Errorf("90d total = %d, want 1000000", stats.TotalViews90d)
	}
}

func TestFoldDailyEmpty(t *testing.T) {
	stats := FoldDaily(nil, time.Now())
	if stats.Available {
		t.Error("no history must report unavailable")
	}
}

func TestFoldDailyUnparseableDates(t *testing.T) {
	stats := FoldDaily([]DailyEntry{{Date: "yesterday", Views: 100}}, time.Now())
	if stats.Available {
		t.Error("history with no parseable dates must report unavailable")
	}
}

func TestFoldDailyCounterReset(t *testing.T) {
	// Provider counter resets can make the window delta negative; the
	// window must clamp to zero instead of going negative.
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	daily := []DailyEntry{
		{Date: "2024-05-20", Views: 500000},
		{Date: "2024-06-01", Views: 100},
	}

	stats := FoldDaily(daily, now)
	if stats.TotalViews14d != 0 {
		t.Errorf("14d total = %d, want 0 after counter reset", stats.TotalViews14d)
	}
}
