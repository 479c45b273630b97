package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/radar"
)

type RadarHandler struct {
	updater *radar.Updater
}

func NewRadarHandler(updater *radar.Updater) *RadarHandler {
	return &RadarHandler{updater: updater}
}

type radarRunRequest struct {
	ChannelID string `json:"channelId"`
}

// Run handles POST /api/radar/run, a manual radar trigger, optionally for a
// single channel. An empty body runs every due entry.
func (h *RadarHandler) Run(c fiber.Ctx) error {
	var req radarRunRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		}
	}

	if req.ChannelID != "" {
		channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.ChannelID = channelID
	}

	result, err := h.updater.Run(c.Context(), req.ChannelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Radar run failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   result,
	})
}
