package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/events"
	"github.com/spec-kit/gym-access-service/internal/repository"
)

// VisitRecorder appends reconciled entry/exit transitions to the access log.
// The log is the durable trail behind the in-memory ledger; a failed insert
// is logged and dropped, it never feeds back into reconciliation.
type VisitRecorder struct {
	visits repository.VisitRepository
	logger *zap.Logger
}

// NewVisitRecorder creates the recorder.
func NewVisitRecorder(visits repository.VisitRepository, logger *zap.Logger) *VisitRecorder {
	return &VisitRecorder{visits: visits, logger: logger}
}

// RegisterHandlers subscribes to presence transition events.
func (r *VisitRecorder) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventMemberEntered, r.handleEntered)
	dispatcher.Subscribe(events.EventMemberExited, r.handleExited)
}

func (r *VisitRecorder) handleEntered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberEnteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}
	visit := &domain.Visit{
		RFIDTag:     event.IdentityTag,
		MemberName:  payload.DisplayName,
		VisitorKind: payload.VisitorKind,
		Kind:        domain.VisitEntry,
		OccurredAt:  payload.EntryTime,
	}
	if err := r.visits.Append(ctx, visit); err != nil {
		r.logger.Warn("failed to record entry visit",
			zap.String("rfid_tag", event.IdentityTag), zap.Error(err))
	}
	return nil
}

func (r *VisitRecorder) handleExited(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberExitedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for %s", event.Type)
	}
	visit := &domain.Visit{
		RFIDTag:     event.IdentityTag,
		MemberName:  payload.DisplayName,
		VisitorKind: payload.VisitorKind,
		Kind:        domain.VisitExit,
		OccurredAt:  payload.ExitTime,
	}
	if err := r.visits.Append(ctx, visit); err != nil {
		r.logger.Warn("failed to record exit visit",
			zap.String("rfid_tag", event.IdentityTag), zap.Error(err))
	}
	return nil
}
