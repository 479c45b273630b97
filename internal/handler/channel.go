package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/service"
)

type ChannelHandler struct {
	svc *service.ChannelService
}

func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// GetByChannelID handles GET /api/channels/:channelId
func (h *ChannelHandler) GetByChannelID(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Lookup(c.Context(), channelID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup channel")
	}
	if resp == nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
	}

	return c.JSON(resp)
}

// Videos handles GET /api/channels/:channelId/videos?outliersOnly=true&limit=50
func (h *ChannelHandler) Videos(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	outliersOnly := c.Query("outliersOnly") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))

	videos, err := h.svc.Videos(c.Context(), channelID, outliersOnly, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list videos")
	}

	return c.JSON(fiber.Map{
		"channelId": channelID,
		"count":     len(videos),
		"videos":    videos,
	})
}
