package model

import (
	"testing"
	"time"
)

func TestNextUpdate(t *testing.T) {
	now := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)

	if got := NextUpdate(FrequencyDaily, now); !got.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("daily next update = %v", got)
	}
	if got := NextUpdate(FrequencyWeekly, now); !got.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Errorf("weekly next update = %v", got)
	}
	if got := NextUpdate(FrequencyManual, now); !got.IsZero() {
		t.Errorf("manual entries must never self-schedule, got %v", got)
	}
	if got := NextUpdate("unknown", now); !got.IsZero() {
		t.Errorf("unknown frequency must not schedule, got %v", got)
	}
}
