package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/blessy-devops/automedia-app-sub002/internal/middleware"
	"github.com/blessy-devops/automedia-app-sub002/internal/model"
	"github.com/blessy-devops/automedia-app-sub002/internal/production"
)

type ProductionHandler struct {
	turnstile   *production.Turnstile
	distributor *production.Distributor
}

func NewProductionHandler(t *production.Turnstile, d *production.Distributor) *ProductionHandler {
	return &ProductionHandler{turnstile: t, distributor: d}
}

type distributeRequest struct {
	BenchmarkVideoID int64    `json:"benchmarkVideoId"`
	Title            string   `json:"title"`
	AccountIDs       []string `json:"accountIds"`
}

type releaseRequest struct {
	Status string `json:"status"`
}

// Tick handles POST /api/production/tick, one turnstile pass. Also wired
// to the scheduler; the endpoint exists so operators can force a pass.
func (h *ProductionHandler) Tick(c fiber.Ctx) error {
	result, err := h.turnstile.Tick(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Turnstile tick failed")
	}
	return c.JSON(result)
}

// Distribute handles POST /api/production/distribute
func (h *ProductionHandler) Distribute(c fiber.Ctx) error {
	var req distributeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.BenchmarkVideoID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "benchmarkVideoId must be a positive integer")
	}
	if len(req.AccountIDs) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "accountIds is required")
	}
	for i, raw := range req.AccountIDs {
		accountID, errMsg := middleware.ValidateAccountID(raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.AccountIDs[i] = accountID
	}
	req.Title = middleware.ValidateTitle(req.Title)

	created, err := h.distributor.Distribute(c.Context(), req.BenchmarkVideoID, req.Title, req.AccountIDs)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "DISTRIBUTE_FAILED", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"created": created,
	})
}

// Release handles POST /api/production/:id/release
func (h *ProductionHandler) Release(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateNumericID(c.Params("id"), "id")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req releaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if !validReleaseStatus(req.Status) {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_STATUS",
			"status must be one of: completed, canceled, scheduled, published, failed, on_hold")
	}

	if err := h.turnstile.Release(c.Context(), id, req.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Production video not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to release")
	}

	return c.JSON(fiber.Map{"success": true})
}

func validReleaseStatus(status string) bool {
	switch status {
	case model.ProductionCompleted, model.ProductionCanceled, model.ProductionScheduled,
		model.ProductionPublished, model.ProductionFailed, model.ProductionOnHold:
		return true
	}
	return false
}
