package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/events"
	"github.com/spec-kit/gym-access-service/internal/hub"
)

// BroadcastService relays domain events to connected live-feed dashboards as
// JSON frames of the same {type, data} shape the scanners publish.
type BroadcastService struct {
	hub    *hub.Hub
	logger *zap.Logger
}

// NewBroadcastService creates the service.
func NewBroadcastService(h *hub.Hub, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{hub: h, logger: logger}
}

// RegisterHandlers subscribes to all dashboard-relevant events.
func (b *BroadcastService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventMemberEntered, b.relay)
	dispatcher.Subscribe(events.EventMemberExited, b.relay)
	dispatcher.Subscribe(events.EventPresenceUpdated, b.relay)
	dispatcher.Subscribe(events.EventStaffScanRouted, b.relay)
}

func (b *BroadcastService) relay(_ context.Context, event events.Event) error {
	frame, err := json.Marshal(struct {
		Type string      `json:"type"`
		Data interface{} `json:"data"`
	}{
		Type: string(event.Type),
		Data: event.Payload,
	})
	if err != nil {
		b.logger.Warn("failed to marshal broadcast frame",
			zap.String("event_type", string(event.Type)), zap.Error(err))
		return err
	}
	b.hub.Broadcast(frame)
	return nil
}
