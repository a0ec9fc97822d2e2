package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-access-service/internal/api/dto"
	"github.com/spec-kit/gym-access-service/internal/repository"
	apperrors "github.com/spec-kit/gym-access-service/pkg/util/errorutil"
)

// VisitsHandler exposes the access-log read endpoints.
type VisitsHandler struct {
	visits repository.VisitRepository
}

// NewVisitsHandler constructs handler.
func NewVisitsHandler(visits repository.VisitRepository) *VisitsHandler {
	return &VisitsHandler{visits: visits}
}

// ListByTag GET /members/:tag/visits.
func (h *VisitsHandler) ListByTag(c *fiber.Ctx) error {
	tag := c.Params("tag")
	if tag == "" {
		return apperrors.NewValidationError("rfid tag required", nil)
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	visits, err := h.visits.ListByTag(c.Context(), tag, limit, offset)
	if err != nil {
		return err
	}

	out := make([]dto.VisitResponse, 0, len(visits))
	for _, v := range visits {
		out = append(out, dto.FromVisit(v))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Today GET /visits/today.
func (h *VisitsHandler) Today(c *fiber.Ctx) error {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	entries, exits, err := h.visits.CountSince(c.Context(), midnight)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"entries": entries,
		"exits":   exits,
		"since":   midnight,
	}})
}
