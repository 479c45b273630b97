package scoring

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func f(v float64) *float64 { return &v }

func TestMedian_OddCount(t *testing.T) {
	m := Median([]int64{300, 100, 200})
	if m == nil || *m != 200 {
		t.Errorf("median of [100,200,300] = %v, want 200", m)
	}
}

func TestMedian_EvenCount(t *testing.T) {
	m := Median([]int64{100, 200, 300, 400})
	if m == nil || *m != 250 {
		t.Errorf("median of [100,200,300,400] = %v, want 250 (average of two middle elements)", m)
	}
}

func TestMedian_SingleElement(t *testing.T) {
	m := Median([]int64{100})
	if m == nil || *m != 100 {
		t.Errorf("median of [100] = %v, want 100", m)
	}
}

func TestMedian_Empty(t *testing.T) {
	if m := Median(nil); m != nil {
		t.Errorf("median of [] = %v, want nil", *m)
	}
}

func TestAvgHistorical_ZeroUploadCount(t *testing.T) {
	if avg := AvgHistorical(100000, 0); avg != nil {
		t.Errorf("avg with zero upload count = %v, want nil", *avg)
	}
}

func TestScoreVideo_UploadedToday(t *testing.T) {
	now := time.Now()
	s, ok := ScoreVideo(5000, now, now, Baselines{})
	if !ok {
		t.Fatal("video uploaded now should still be scorable")
	}
	if s.VideoAgeDays != 0 {
		t.Errorf("age = %d, want 0", s.VideoAgeDays)
	}
	// views / (0 + 1), never a division by zero
	if s.ViewsPerDay != 5000 {
		t.Errorf("viewsPerDay = %d, want 5000", s.ViewsPerDay)
	}
}

func TestScoreVideo_NoViews(t *testing.T) {
	_, ok := ScoreVideo(0, time.Now().Add(-48*time.Hour), time.Now(), Baselines{})
	if ok {
		t.Error("video with no views should be skipped, not scored")
	}
}

func TestScoreVideo_NoUploadDate(t *testing.T) {
	_, ok := ScoreVideo(1000, time.Time{}, time.Now(), Baselines{})
	if ok {
		t.Error("video with no upload date should be skipped, not scored")
	}
}

func TestScoreVideo_NilBaselinesYieldNilRatios(t *testing.T) {
	s, ok := ScoreVideo(6000, time.Now().Add(-72*time.Hour), time.Now(), Baselines{})
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VsAvgHistorical != nil || s.VsMedianHistorical != nil {
		t.Error("historical ratios should be nil without baselines")
	}
	if s.VsRecent14d != nil || s.VsRecent30d != nil || s.VsRecent90d != nil {
		t.Error("momentum ratios should be nil without baseline stats")
	}
}

func TestScoreVideo_ZeroBaselineNeverDividesByZero(t *testing.T) {
	b := Baselines{AvgHistoricalViews: f(0), MedianHistoricalViews: f(0), DailyAvg14d: f(0)}
	s, ok := ScoreVideo(6000, time.Now().Add(-72*time.Hour), time.Now(), b)
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VsAvgHistorical != nil {
		t.Errorf("ratio against zero avg = %v, want nil", *s.VsAvgHistorical)
	}
	if s.VsMedianHistorical != nil || s.VsRecent14d != nil {
		t.Error("ratios against zero baselines must be nil, never Inf or NaN")
	}
}

// Channel with totalViews=100000 over 100 uploads and median 500: a 6000-view
// video scores 6.00x the average and 12.00x the median, clearing both the
// outlier (5x) and clone-worthy (10x) thresholds.
func TestScoreVideo_HistoricalRatios(t *testing.T) {
	b := ComputeBaselines(100000, 100, []int64{500}, nil, nil, nil)
	if b.AvgHistoricalViews == nil || *b.AvgHistoricalViews != 1000 {
		t.Fatalf("avgHistoricalViews = %v, want 1000", b.AvgHistoricalViews)
	}

	s, ok := ScoreVideo(6000, time.Now().Add(-24*time.Hour), time.Now(), b)
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VsAvgHistorical == nil || !almostEqual(*s.VsAvgHistorical, 6.00, 0.001) {
		t.Errorf("vsAvgHistorical = %v, want 6.00", s.VsAvgHistorical)
	}
	if s.VsMedianHistorical == nil || !almostEqual(*s.VsMedianHistorical, 12.00, 0.001) {
		t.Errorf("vsMedianHistorical = %v, want 12.00", s.VsMedianHistorical)
	}
	if !IsOutlier(s.VsMedianHistorical, 5) {
		t.Error("12x median should be an outlier at the 5x threshold")
	}
	if !IsOutlier(s.VsMedianHistorical, 10) {
		t.Error("12x median should clear the 10x clone-worthy threshold")
	}
}

// 140000 views over 14 days gives a 10000/day baseline; a 2-day-old video
// with 30000 views runs at 10000/day, exactly average momentum.
func TestScoreVideo_Momentum(t *testing.T) {
	dailyAvg14 := f(140000.0 / 14)

	s, ok := ScoreVideo(30000, time.Now().Add(-49*time.Hour), time.Now(), Baselines{DailyAvg14d: dailyAvg14})
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VideoAgeDays != 2 {
		t.Fatalf("age = %d, want 2", s.VideoAgeDays)
	}
	if s.ViewsPerDay != 10000 {
		t.Errorf("viewsPerDay = %d, want 10000", s.ViewsPerDay)
	}
	if s.VsRecent14d == nil || !almostEqual(*s.VsRecent14d, 1.00, 0.001) {
		t.Errorf("vsRecent14d = %v, want 1.00", s.VsRecent14d)
	}
}

// A channel without baseline stats still gets historical ratios; only the
// momentum ratios stay nil.
func TestScoreVideo_MissingBaselineStats(t *testing.T) {
	b := ComputeBaselines(100000, 100, []int64{400, 600}, nil, nil, nil)

	s, ok := ScoreVideo(6000, time.Now().Add(-24*time.Hour), time.Now(), b)
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VsAvgHistorical == nil || s.VsMedianHistorical == nil {
		t.Error("historical ratios should be computed without baseline stats")
	}
	if s.VsRecent14d != nil || s.VsRecent30d != nil || s.VsRecent90d != nil {
		t.Error("momentum ratios should be nil without baseline stats")
	}
}

func TestComputeBaselines_ExcludesZeroViewRows(t *testing.T) {
	b := ComputeBaselines(0, 0, []int64{0, 0, 100, 300}, nil, nil, nil)
	if b.MedianHistoricalViews == nil || *b.MedianHistoricalViews != 200 {
		t.Errorf("median = %v, want 200 (zero-view rows excluded)", b.MedianHistoricalViews)
	}
}

func TestIsOutlier_Thresholds(t *testing.T) {
	cases := []struct {
		ratio     *float64
		threshold float64
		want      bool
	}{
		{f(4.99), 5, false},
		{f(5.00), 5, true},
		{f(9.99), 10, false},
		{f(10.00), 10, true},
		{nil, 5, false},
	}
	for _, c := range cases {
		if got := IsOutlier(c.ratio, c.threshold); got != c.want {
			t.Errorf("IsOutlier(%v, %.0f) = %v, want %v", c.ratio, c.threshold, got, c.want)
		}
	}
}

func TestRatio_RoundsToTwoDecimals(t *testing.T) {
	b := Baselines{AvgHistoricalViews: f(3)}
	s, ok := ScoreVideo(1000, time.Now().Add(-24*time.Hour), time.Now(), b)
	if !ok {
		t.Fatal("video should be scorable")
	}
	if s.VsAvgHistorical == nil || !almostEqual(*s.VsAvgHistorical, 333.33, 0.001) {
		t.Errorf("vsAvgHistorical = %v, want 333.33", s.VsAvgHistorical)
	}
}
