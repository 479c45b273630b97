package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/service"
)

type stubChannelFinder struct {
	ch *model.Channel
}

func (s stubChannelFinder) FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error) {
	return s.ch, nil
}

type stubBaselineFinder struct{}

func (stubBaselineFinder) Find(ctx context.Context, channelID string) (*model.BaselineStats, error) {
	return nil, nil
}

type stubVideoLister struct{}

func (stubVideoLister) ListByChannel(ctx context.Context, channelID string, outliersOnly bool, limit int) ([]model.Video, error) {
	return nil, nil
}

func newChannelTestApp(ch *model.Channel) *fiber.App {
	svc := service.NewChannelService(stubChannelFinder{ch: ch}, stubBaselineFinder{}, stubVideoLister{}, nil)
	h := NewChannelHandler(svc)

	app := fiber.New()
	app.Get("/api/channels/:channelId", h.GetByChannelID)
	return app
}

func TestGetChannel_UnknownReturns404(t *testing.T) {
	app := newChannelTestApp(nil)

	req := httptest.NewRequest("GET", "/api/channels/UCnonexistent0000000000", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", body.Error.Code)
	}
}

func TestGetChannel_KnownReturns200(t *testing.T) {
	name := "Tech Reviews"
	app := newChannelTestApp(&model.Channel{
		ChannelID:   "UCknownchannel00000000",
		ChannelName: &name,
	})

	req := httptest.NewRequest("GET", "/api/channels/UCknownchannel00000000", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body model.ChannelResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ChannelID != "UCknownchannel00000000" {
		t.Errorf("channelId = %q, want UCknownchannel00000000", body.ChannelID)
	}
	if body.ChannelName != "Tech Reviews" {
		t.Errorf("channelName = %q, want Tech Reviews", body.ChannelName)
	}
}
