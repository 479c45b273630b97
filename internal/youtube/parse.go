package youtube

import (
	"strconv"
	"strings"
)

// ParseViewCount converts a view count that may arrive as a number or as
// abbreviated text ("1.2K", "5M", "1.5B") into an integer. Unparseable
// input yields 0.
func ParseViewCount(raw string) int64 {
	if raw == "" {
		return 0
	}

	text := strings.ToLower(strings.TrimSpace(raw))
	cleaned := strings.Builder{}
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == 'k' || r == 'm' || r == 'b' {
			cleaned.WriteRune(r)
		}
	}
	text = cleaned.String()

	multiplier := float64(1)
	switch {
	case strings.Contains(text, "k"):
		multiplier = 1_000
	case strings.Contains(text, "m"):
		multiplier = 1_000_000
	case strings.Contains(text, "b"):
		multiplier = 1_000_000_000
	}
	text = strings.Trim(text, "kmb")

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return int64(num*multiplier + 0.5)
}

// ParseDuration converts "MM:SS" or "HH:MM:SS" length text into seconds.
// Malformed input yields 0, which the fetch filter then drops.
func ParseDuration(lengthText string) int {
	parts := strings.Split(lengthText, ":")

	switch len(parts) {
	case 2:
		m, errM := strconv.Atoi(parts[0])
		s, errS := strconv.Atoi(parts[1])
		if errM != nil || errS != nil {
			return 0
		}
		return m*60 + s
	case 3:
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		s, errS := strconv.Atoi(parts[2])
		if errH != nil || errM != nil || errS != nil {
			return 0
		}
		return h*3600 + m*60 + s
	default:
		return 0
	}
}

// Thumbnail is one rendition of a video or channel image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// BestThumbnail returns the URL of the widest rendition, or "" when none.
func BestThumbnail(thumbnails []Thumbnail) string {
	best := ""
	bestWidth := -1
	for _, t := range thumbnails {
		if t.Width > bestWidth {
			best = t.URL
			bestWidth = t.Width
		}
	}
	return best
}

// BestAvatar picks the channel avatar rendition: the first one at least
// minWidth wide, falling back to the largest available.
func BestAvatar(avatars []Thumbnail, minWidth int) string {
	for _, a := range avatars {
		if a.Width >= minWidth {
			return a.URL
		}
	}
	return BestThumbnail(avatars)
}
