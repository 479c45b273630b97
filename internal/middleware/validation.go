package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxVideoIDLen   = 16 // benchmark_videos.youtube_video_id VARCHAR(16)
	MaxChannelIDLen = 32 // benchmark_channels.channel_id VARCHAR(32)
	MaxAccountIDLen = 64 // production_videos.account_id VARCHAR(64)
	MaxTitleLen     = 256
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// channelIDRe matches YouTube channel IDs: alphanumeric, dash, underscore.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// accountIDRe matches destination account identifiers.
	accountIDRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed and within DB limits.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 32 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateAccountID checks a destination account identifier.
func ValidateAccountID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "accountId is required"
	}
	if len(id) > MaxAccountIDLen {
		return "", "accountId must be at most 64 characters"
	}
	if !accountIDRe.MatchString(id) {
		return "", "accountId contains invalid characters"
	}
	return id, ""
}

// ValidateNumericID parses a positive integer route parameter.
func ValidateNumericID(raw, field string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, field + " is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, field + " must be a positive integer"
	}
	return id, ""
}

// ValidateTitle trims and truncates a production title to DB limits.
func ValidateTitle(title string) string {
	title = strings.TrimSpace(title)
	if len(title) > MaxTitleLen {
		title = title[:MaxTitleLen]
	}
	return title
}
