package youtube

import "testing"

func TestParseViewCount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1234", 1234},
		{"1.2K", 1200},
		{"5M", 5000000},
		{"1.5B", 1500000000},
		{"2,345 views", 2345},
		{"", 0},
		{"n/a", 0},
	}
	for _, c := range cases {
		if got := ParseViewCount(c.in); got != c.want {
			t.Errorf("ParseViewCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4:32", 272},
		{"1:23:45", 5025},
		{"0:59", 59},
		{"", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := ParseDuration(c.in); got != c.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBestThumbnail(t *testing.T) {
	thumbs := []Thumbnail{
		{URL: "small", Width: 120},
		{URL: "large", Width: 720},
		{URL: "medium", Width: 360},
	}
	if got := BestThumbnail(thumbs); got != "large" {
		t.Errorf("BestThumbnail = %q, want %q", got, "large")
	}
	if got := BestThumbnail(nil); got != "" {
		t.Errorf("BestThumbnail(nil) = %q, want empty", got)
	}
}

func TestBestAvatar_PrefersMinWidth(t *testing.T) {
	avatars := []Thumbnail{
		{URL: "small", Width: 88},
		{URL: "high", Width: 176},
		{URL: "huge", Width: 800},
	}
	if got := BestAvatar(avatars, 176); got != "high" {
		t.Errorf("BestAvatar = %q, want %q", got, "high")
	}

	// No rendition reaches minWidth: fall back to the largest.
	small := []Thumbnail{{URL: "a", Width: 48}, {URL: "b", Width: 88}}
	if got := BestAvatar(small, 176); got != "b" {
		t.Errorf("BestAvatar fallback = %q, want %q", got, "b")
	}
}

func TestVideoItem_DurationSeconds(t *testing.T) {
	v := VideoItem{LengthSeconds: 300}
	if got := v.DurationSeconds(); got != 300 {
		t.Errorf("DurationSeconds = %d, want 300", got)
	}

	v = VideoItem{LengthText: "4:00"}
	if got := v.DurationSeconds(); got != 240 {
		t.Errorf("DurationSeconds from text = %d, want 240", got)
	}
}
