package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/pipeline"
)

type EnrichmentHandler struct {
	pipeline *pipeline.Pipeline
}

func NewEnrichmentHandler(p *pipeline.Pipeline) *EnrichmentHandler {
	return &EnrichmentHandler{pipeline: p}
}

type enrichStartRequest struct {
	ChannelID string `json:"channelId"`
}

type stepRetryRequest struct {
	ChannelID string `json:"channelId"`
	TaskID    int64  `json:"taskId"`
}

// Start handles POST /api/enrichment/start. The work runs on the queue;
// the response carries the task ID the dashboard polls.
func (h *EnrichmentHandler) Start(c fiber.Ctx) error {
	var req enrichStartRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	taskID, err := h.pipeline.Start(c.Context(), channelID, nil)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start enrichment")
	}

	Metrics.EnrichRequests.Inc()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Enrichment started",
		"taskId":  taskID,
	})
}

// RetryStep handles POST /api/enrichment/steps/:step/retry. The retry is
// explicit, so even a completed step runs again.
func (h *EnrichmentHandler) RetryStep(c fiber.Ctx) error {
	var req stepRetryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if req.TaskID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "taskId must be a positive integer")
	}

	if err := h.pipeline.Retry(c.Context(), req.TaskID, channelID, c.Params("step")); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_STEP", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Step re-enqueued",
	})
}
