package scoring

import (
	"math"
	"sort"
	"time"
)

// Baselines holds the per-channel reference values a video is scored
// against. Any field may be nil when the underlying data is missing; the
// corresponding ratio is then left unscored instead of erroring.
type Baselines struct {
	AvgHistoricalViews    *float64 // channel total views / video upload count
	MedianHistoricalViews *float64 // median of all stored video view counts
	DailyAvg14d           *float64 // baseline 14-day views / 14
	DailyAvg30d           *float64
	DailyAvg90d           *float64
}

// Score holds the computed performance metrics for a single video.
type Score struct {
	VideoAgeDays int
	ViewsPerDay  int

	VsAvgHistorical    *float64
	VsMedianHistorical *float64
	VsRecent14d        *float64
	VsRecent30d        *float64
	VsRecent90d        *float64
}

// Median returns the median of the given view counts, averaging the two
// middle elements for even-length input. Returns nil for empty input.
func Median(values []int64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 0 {
		m = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		m = float64(sorted[mid])
	}
	return &m
}

// AvgHistorical returns total views divided by upload count, or nil when the
// denominator is not positive.
func AvgHistorical(totalViews, videoUploadCount int64) *float64 {
	if videoUploadCount <= 0 {
		return nil
	}
	avg := float64(totalViews) / float64(videoUploadCount)
	return &avg
}

// ComputeBaselines assembles the reference values for a channel. viewCounts
// is every stored view count for the channel; zero-view rows are excluded
// from the median the same way the dashboard excludes them.
func ComputeBaselines(totalViews, videoUploadCount int64, viewCounts []int64, dailyAvg14, dailyAvg30, dailyAvg90 *float64) Baselines {
	positive := make([]int64, 0, len(viewCounts))
	for _, v := range viewCounts {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	return Baselines{
		AvgHistoricalViews:    AvgHistorical(totalViews, videoUploadCount),
		MedianHistoricalViews: Median(positive),
		DailyAvg14d:           dailyAvg14,
		DailyAvg30d:           dailyAvg30,
		DailyAvg90d:           dailyAvg90,
	}
}

// ScoreVideo computes the performance metrics for one video. The second
// return value is false when the video cannot be scored (no views or no
// upload date); such videos stay unscored and get picked up again on the
// next run.
func ScoreVideo(views int64, uploadDate time.Time, now time.Time, b Baselines) (Score, bool) {
	if views <= 0 || uploadDate.IsZero() {
		return Score{}, false
	}

	ageDays := int(math.Floor(now.Sub(uploadDate).Hours() / 24))
	if ageDays < 0 {
		ageDays = 0
	}

	// +1 so a video uploaded today divides by one day, never by zero.
	viewsPerDay := int(math.Round(float64(views) / float64(ageDays+1)))

	s := Score{
		VideoAgeDays:       ageDays,
		ViewsPerDay:        viewsPerDay,
		VsAvgHistorical:    ratio(float64(views), b.AvgHistoricalViews),
		VsMedianHistorical: ratio(float64(views), b.MedianHistoricalViews),
		VsRecent14d:        ratio(float64(viewsPerDay), b.DailyAvg14d),
		VsRecent30d:        ratio(float64(viewsPerDay), b.DailyAvg30d),
		VsRecent90d:        ratio(float64(viewsPerDay), b.DailyAvg90d),
	}
	return s, true
}

// IsOutlier reports whether a median-historical ratio clears the threshold.
// An unscored ratio is never an outlier.
func IsOutlier(vsMedianHistorical *float64, threshold float64) bool {
	return vsMedianHistorical != nil && *vsMedianHistorical >= threshold
}

// ratio divides value by a nullable baseline, rounded to two decimals.
// Nil or non-positive baselines yield nil rather than Inf or NaN.
func ratio(value float64, baseline *float64) *float64 {
	if baseline == nil || *baseline <= 0 {
		return nil
	}
	r := math.Round(value/(*baseline)*100) / 100
	return &r
}
