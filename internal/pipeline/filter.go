package pipeline

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/youtube"
)

// FilterVideos keeps only long-form uploads: the listing's type must be
// "video" (drops Shorts and lives) and the duration must reach the minimum.
func FilterVideos(items []youtube.VideoItem, minDurationSeconds int) []youtube.VideoItem {
	kept := make([]youtube.VideoItem, 0, len(items))
	for _, item := range items {
		if item.Type != "video" {
			continue
		}
		if item.DurationSeconds() < minDurationSeconds {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// BuildVideo maps one listing entry onto the stored video shape. Videos the
// API reports without a parseable upload date keep a nil date and are later
// skipped by the scoring step rather than faked with "now".
func BuildVideo(item youtube.VideoItem, channelID string) model.Video {
	v := model.Video{
		YouTubeVideoID:  item.VideoID,
		ChannelID:       channelID,
		Title:           item.Title,
		Views:           item.Views(),
		DurationSeconds: item.DurationSeconds(),
		Tags:            item.Keywords,
		Status:          model.VideoStatusBenchmark,
	}

	if desc := truncate(item.Description, 100); desc != "" {
		v.Description = &desc
	}
	if thumb := youtube.BestThumbnail(item.Thumbnail); thumb != "" {
		v.ThumbnailURL = &thumb
	}
	if ts := item.UploadDate(); !ts.IsZero() && !ts.After(time.Now().Add(24*time.Hour)) {
		v.UploadDate = &ts
	}
	return v
}

// truncate caps s at max runes. Cutting on a rune boundary keeps the stored
// description valid UTF-8 even for non-ASCII titles.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
