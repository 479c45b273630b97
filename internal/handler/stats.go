package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Dashboard handles GET /api/dashboard/stats
func (h *StatsHandler) Dashboard(c fiber.Ctx) error {
	resp, err := h.svc.Dashboard(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
	}
	return c.JSON(resp)
}
