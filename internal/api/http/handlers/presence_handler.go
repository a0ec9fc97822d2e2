package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-access-service/internal/api/dto"
	"github.com/spec-kit/gym-access-service/internal/service"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

// PresenceHandler exposes the reconciled occupancy view and the HTTP ingest
// path for gates that cannot hold a websocket.
type PresenceHandler struct {
	service *service.PresenceService
}

// NewPresenceHandler constructs handler.
func NewPresenceHandler(presenceService *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{service: presenceService}
}

// Snapshot GET /presence/snapshot.
func (h *PresenceHandler) Snapshot(c *fiber.Ctx) error {
	view := h.service.GetSnapshot()

	records := make([]dto.PresenceRecordResponse, 0, len(view.Records))
	for _, rec := range view.Records {
		records = append(records, dto.FromPresenceRecord(rec))
	}
	return c.JSON(fiber.Map{"data": dto.SnapshotResponse{
		Records:      records,
		InsideCount:  view.InsideCount,
		OutsideCount: view.OutsideCount,
	}})
}

// Highlights GET /presence/highlights.
func (h *PresenceHandler) Highlights(c *fiber.Ctx) error {
	entry, exit := h.service.GetHighlights()
	return c.JSON(fiber.Map{"data": dto.HighlightsResponse{
		Entry: dto.FromHighlight(entry),
		Exit:  dto.FromHighlight(exit),
	}})
}

// IngestFrame POST /feed/events. The body is one raw {type,data} frame;
// discards are reported in the response, never as HTTP errors, so a
// misbehaving gate can't tell its frames apart from accepted ones and keeps
// publishing on its own cadence.
func (h *PresenceHandler) IngestFrame(c *fiber.Ctx) error {
	result := h.service.Ingest(c.Context(), "http", c.Body())
	return c.JSON(fiber.Map{"data": dto.IngestResultResponse{
		Applied: result.Discarded == stream.DiscardNone,
		Discard: string(result.Discarded),
	}})
}
