package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hibiken/asynq"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/youtube"
)

func TestFilterVideos(t *testing.T) {
	items := []youtube.VideoItem{
		{Type: "video", VideoID: "long", LengthSeconds: 600},
		{Type: "video", VideoID: "exact", LengthSeconds: 240},
		{Type: "video", VideoID: "short-video", LengthSeconds: 239},
		{Type: "shorts", VideoID: "a-short", LengthSeconds: 400},
		{Type: "stream", VideoID: "live", LengthSeconds: 3600},
		{Type: "video", VideoID: "text-length", LengthText: "12:30"},
	}

	kept := FilterVideos(items, 240)

	want := []string{"long", "exact", "text-length"}
	if len(kept) != len(want) {
		t.Fatalf("kept %d videos, want %d", len(kept), len(want))
	}
	for i, id := range want {
		if kept[i].VideoID != id {
			t.Errorf("kept[%d] = %s, want %s", i, kept[i].VideoID, id)
		}
	}
}

func TestBuildVideoTruncatesDescription(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}

	v := BuildVideo(youtube.VideoItem{
		Type:          "video",
		VideoID:       "v1",
		Title:         "Title",
		Description:   long,
		LengthSeconds: 600,
		ViewCount:     json.Number("1500"),
	}, "UC123")

	if v.Description == nil {
		t.Fatal("expected truncated description, got nil")
	}
	if got := len(*v.Description); got != 103 {
		t.Errorf("description length = %d, want 103 (100 chars + ellipsis)", got)
	}
	if v.Views != 1500 {
		t.Errorf("views = %d, want 1500", v.Views)
	}
	if v.Status != model.VideoStatusBenchmark {
		t.Errorf("status = %s, want %s", v.Status, model.VideoStatusBenchmark)
	}
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	// 150 three-byte runes; a byte-index cut at 100 would land mid-rune.
	long := strings.Repeat("日", 150)

	got := truncate(long, 100)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("日", 100) + "..."; got != want {
		t.Errorf("truncate = %d runes, want 100 runes + ellipsis", utf8.RuneCountInString(got))
	}

	if short := truncate("héllo", 100); short != "héllo" {
		t.Errorf("truncate(héllo) = %q, want unchanged", short)
	}
}

func TestBuildVideoKeepsNilUploadDateWhenUnparseable(t *testing.T) {
	v := BuildVideo(youtube.VideoItem{
		Type:          "video",
		VideoID:       "v1",
		LengthSeconds: 600,
		PublishedAt:   "3 weeks ago",
	}, "UC123")

	if v.UploadDate != nil {
		t.Errorf("upload date = %v, want nil for relative text", *v.UploadDate)
	}
}

func TestTaskTypeForStep(t *testing.T) {
	for _, step := range model.StepOrder {
		if _, ok := taskTypeForStep(step); !ok {
			t.Errorf("no task type registered for step %s", step)
		}
	}
	if _, ok := taskTypeForStep("starter"); ok {
		t.Error("starter must not be retryable as a step")
	}
}

func TestDecodePayload(t *testing.T) {
	body, _ := json.Marshal(Payload{ChannelID: "UC123", TaskID: 42, Explicit: true})
	pl, err := decodePayload(asynq.NewTask(TypeCategorization, body))
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if pl.ChannelID != "UC123" || pl.TaskID != 42 || !pl.Explicit {
		t.Errorf("payload = %+v", pl)
	}

	if _, err := decodePayload(asynq.NewTask(TypeCategorization, []byte(`{}`))); err == nil {
		t.Error("expected error for payload missing channelId and taskId")
	}
	if _, err := decodePayload(asynq.NewTask(TypeCategorization, []byte(`not json`))); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestStandardizeChannel(t *testing.T) {
	about := &youtube.ChannelAbout{
		Title:           "Tech Channel",
		Description:     "Reviews and teardowns",
		SubscriberCount: json.Number("250000"),
		ViewCount:       json.Number("40000000"),
		VideosCount:     json.Number("320"),
		JoinedDate:      "Joined Mar 14, 2015",
		Country:         "US",
		ChannelHandle:   "@techchannel",
		IsVerified:      true,
	}

	ch := standardizeChannel("UC123", about)

	if ch.ChannelID != "UC123" {
		t.Errorf("channelID = %s", ch.ChannelID)
	}
	if ch.SubscriberCount == nil || *ch.SubscriberCount != 250000 {
		t.Errorf("subscriberCount = %v, want 250000", ch.SubscriberCount)
	}
	if ch.VideoUploadCount == nil || *ch.VideoUploadCount != 320 {
		t.Errorf("videoUploadCount = %v, want 320", ch.VideoUploadCount)
	}
	if ch.CreationDate == nil {
		t.Fatal("expected creation date from joined text")
	}
	if got := ch.CreationDate.Format("2006-01-02"); got != "2015-03-14" {
		t.Errorf("creationDate = %s, want 2015-03-14", got)
	}
	if ch.CustomURL == nil || *ch.CustomURL != "https://www.youtube.com/@techchannel" {
		t.Errorf("customURL = %v", ch.CustomURL)
	}
	if !ch.IsVerified {
		t.Error("expected verified flag to carry over")
	}
}

func TestStandardizeChannelMissingCounts(t *testing.T) {
	ch := standardizeChannel("UC123", &youtube.ChannelAbout{Title: "Bare"})

	if ch.SubscriberCount != nil || ch.TotalViews != nil || ch.VideoUploadCount != nil {
		t.Error("empty counts must map to nil, not zero")
	}
	if ch.CreationDate != nil {
		t.Error("missing joined date must map to nil")
	}
}

func TestParseJoinedDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Joined Mar 14, 2015", "2015-03-14"},
		{"Jan 2, 2020", "2020-01-02"},
		{"2019-07-01", "2019-07-01"},
		{"", ""},
		{"unknown", ""},
	}
	for _, tc := range cases {
		got := parseJoinedDate(tc.raw)
		if tc.want == "" {
			if !got.IsZero() {
				t.Errorf("parseJoinedDate(%q) = %v, want zero", tc.raw, got)
			}
			continue
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("parseJoinedDate(%q) = %v, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestBuildVideoRejectsFutureUploadDate(t *testing.T) {
	future := time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	v := BuildVideo(youtube.VideoItem{
		Type:          "video",
		VideoID:       "v1",
		LengthSeconds: 600,
		PublishedAt:   future,
	}, "UC123")

	if v.UploadDate != nil {
		t.Errorf("upload date = %v, want nil for a date in the future", *v.UploadDate)
	}
}
