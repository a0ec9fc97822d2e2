package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

// Config carries the session's tunables. The coalescing and highlight windows
// are deployment parameters, not hard-coded literals.
type Config struct {
	CoalesceWindow  time.Duration
	HighlightWindow time.Duration
	SweepInterval   time.Duration
	Now             func() time.Time
}

// SnapshotView is the read surface handed to renderers: the ordered records
// plus the derived occupancy counts.
type SnapshotView struct {
	Records      []domain.PresenceRecord
	InsideCount  int
	OutsideCount int
}

// DeliveryResult reports what became of one delivered frame.
type DeliveryResult struct {
	Discarded  stream.DiscardReason
	Record     *domain.PresenceRecord
	Transition Transition
	Routing    *domain.RoutingOutcome
}

// Session owns one ledger, one highlight window and one normalizer for one
// consumer context. It is constructed per consumer and passed explicitly;
// there is no package-level shared instance. Open starts the highlight sweep
// ticker, Close stops it — the only scheduled recurring work in the core.
type Session struct {
	normalizer *stream.Normalizer
	ledger     *Ledger
	highlights *HighlightWindow
	reconciler *Reconciler
	logger     *zap.Logger

	sweepInterval time.Duration
	now           func() time.Time

	onRouting    func(domain.RoutingOutcome)
	onTransition func(Transition, domain.PresenceRecord)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession assembles a session from its config. Call Open before delivering
// frames if highlight expiry is wanted; Deliver works without it.
func NewSession(cfg Config, logger *zap.Logger) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ledger := NewLedger(cfg.Now)
	highlights := NewHighlightWindow(cfg.HighlightWindow)

	return &Session{
		normalizer:    stream.NewNormalizer(cfg.CoalesceWindow, cfg.Now),
		ledger:        ledger,
		highlights:    highlights,
		reconciler:    NewReconciler(ledger, highlights, cfg.Now),
		logger:        logger,
		sweepInterval: cfg.SweepInterval,
		now:           cfg.Now,
		done:          make(chan struct{}),
	}
}

// OnRoutingOutcome registers the callback invoked with staff-scan
// classifications. Register before Open.
func (s *Session) OnRoutingOutcome(fn func(domain.RoutingOutcome)) {
	s.onRouting = fn
}

// OnTransition registers the callback invoked after an entry or exit
// transition is reconciled. Register before Open.
func (s *Session) OnTransition(fn func(Transition, domain.PresenceRecord)) {
	s.onTransition = fn
}

// Open starts the background sweep loop. The loop exits when ctx is
// cancelled or Close is called.
func (s *Session) Open(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.sweepLoop(ctx)
}

// Close stops the sweep loop and waits for it to finish.
func (s *Session) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Session) sweepLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.highlights.Sweep(s.now())
		}
	}
}

// Deliver runs one raw frame through normalize and reconcile. Frames are
// processed to completion one at a time; a broken frame is discarded and
// never stops the caller's receive loop.
func (s *Session) Deliver(raw []byte) DeliveryResult {
	ev, reason := s.normalizer.Normalize(raw)
	if reason != stream.DiscardNone {
		s.logger.Debug("frame discarded", zap.String("reason", string(reason)))
		return DeliveryResult{Discarded: reason}
	}

	switch ev := ev.(type) {
	case stream.MemberPresenceChanged:
		rec, transition := s.reconciler.Apply(ev)
		if transition != TransitionNone && s.onTransition != nil {
			s.onTransition(transition, rec)
		}
		return DeliveryResult{Record: &rec, Transition: transition}
	case stream.StaffScanDetected:
		outcome := s.reconciler.Classify(ev)
		if s.onRouting != nil {
			s.onRouting(outcome)
		}
		return DeliveryResult{Routing: &outcome}
	default:
		// Unreachable while the normalizer and this switch stay in step.
		return DeliveryResult{Discarded: stream.DiscardUnknownType}
	}
}

// GetSnapshot returns the ordered presence records and occupancy counts.
func (s *Session) GetSnapshot() SnapshotView {
	inside, outside := s.ledger.CountByStatus()
	return SnapshotView{
		Records:      s.ledger.Snapshot(),
		InsideCount:  inside,
		OutsideCount: outside,
	}
}

// GetHighlights returns the current entry and exit highlights, either of
// which may be nil.
func (s *Session) GetHighlights() (entry, exit *domain.HighlightEntry) {
	return s.highlights.Highlights()
}
