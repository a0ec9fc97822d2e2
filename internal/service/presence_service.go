package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/config"
	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/events"
	"github.com/spec-kit/gym-access-service/internal/observability"
	"github.com/spec-kit/gym-access-service/internal/presence"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

// PresenceService owns the realtime session and turns reconciled frames into
// domain events. All ingest paths (websocket feed, redis channel, HTTP)
// funnel through Ingest.
type PresenceService struct {
	session    *presence.Session
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewPresenceService assembles the service around a fresh session.
func NewPresenceService(cfg config.PresenceConfig, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *PresenceService {
	session := presence.NewSession(presence.Config{
		CoalesceWindow:  cfg.CoalesceWindow(),
		HighlightWindow: cfg.HighlightWindow(),
		SweepInterval:   cfg.SweepInterval(),
	}, logger)

	return &PresenceService{
		session:    session,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Start opens the session (highlight sweeping begins).
func (s *PresenceService) Start(ctx context.Context) {
	s.session.Open(ctx)
}

// Stop closes the session and its sweep ticker.
func (s *PresenceService) Stop() {
	s.session.Close()
}

// Ingest delivers one raw frame from the named source. Discards are counted,
// never escalated; a broken frame must not disturb the feed.
func (s *PresenceService) Ingest(ctx context.Context, source string, raw []byte) presence.DeliveryResult {
	result := s.session.Deliver(raw)

	if result.Discarded != stream.DiscardNone {
		s.metrics.RecordFrame(source, string(result.Discarded))
		return result
	}
	s.metrics.RecordFrame(source, "applied")

	switch {
	case result.Routing != nil:
		s.publishRouting(ctx, *result.Routing)
	case result.Record != nil:
		s.publishPresence(ctx, result.Transition, *result.Record)
	}
	return result
}

// GetSnapshot returns the ordered presence records and occupancy counts.
func (s *PresenceService) GetSnapshot() presence.SnapshotView {
	return s.session.GetSnapshot()
}

// GetHighlights returns the current entry/exit highlight cards.
func (s *PresenceService) GetHighlights() (entry, exit *domain.HighlightEntry) {
	return s.session.GetHighlights()
}

func (s *PresenceService) publishRouting(ctx context.Context, outcome domain.RoutingOutcome) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventStaffScanRouted,
		IdentityTag: outcome.IdentityTag,
		Timestamp:   time.Now(),
		Payload:     events.StaffScanRoutedPayload{Outcome: outcome},
	})
}

func (s *PresenceService) publishPresence(ctx context.Context, transition presence.Transition, rec domain.PresenceRecord) {
	now := time.Now()

	switch transition {
	case presence.TransitionEntry:
		entryTime := now
		if rec.EntryTime != nil {
			entryTime = *rec.EntryTime
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventMemberEntered,
			IdentityTag: rec.IdentityTag,
			Timestamp:   now,
			Payload: events.MemberEnteredPayload{
				DisplayName:      rec.DisplayName,
				VisitorKind:      rec.VisitorKind,
				BillingKind:      rec.BillingKind,
				EntryTime:        entryTime,
				RemainingBalance: rec.Supplemental.RemainingBalance,
				Expiry:           rec.Supplemental.SubscriptionExpiry,
			},
		})
	case presence.TransitionExit:
		exitTime := now
		if rec.ExitTime != nil {
			exitTime = *rec.ExitTime
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventMemberExited,
			IdentityTag: rec.IdentityTag,
			Timestamp:   now,
			Payload: events.MemberExitedPayload{
				DisplayName: rec.DisplayName,
				VisitorKind: rec.VisitorKind,
				ExitTime:    exitTime,
			},
		})
	}

	view := s.session.GetSnapshot()
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventPresenceUpdated,
		IdentityTag: rec.IdentityTag,
		Timestamp:   now,
		Payload: events.PresenceUpdatedPayload{
			InsideCount:  view.InsideCount,
			OutsideCount: view.OutsideCount,
		},
	})
}
