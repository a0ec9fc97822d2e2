package presence

import (
	"sync"
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

// Transition reports what kind of presence transition a reconciled event
// represented, if any.
type Transition string

const (
	TransitionNone  Transition = ""
	TransitionEntry Transition = "ENTRY"
	TransitionExit  Transition = "EXIT"
)

// Reconciler applies one inbound event to the ledger and highlight window as
// a single atomic unit: no other event is reconciled mid-step, which is the
// only ordering guarantee the feed's consumers rely on.
type Reconciler struct {
	mu         sync.Mutex
	ledger     *Ledger
	highlights *HighlightWindow
	now        func() time.Time
}

// NewReconciler wires the policy to its ledger and highlight window.
func NewReconciler(ledger *Ledger, highlights *HighlightWindow, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{ledger: ledger, highlights: highlights, now: now}
}

// Apply reconciles one member presence event: an entry transition records an
// entry highlight, an exit transition an exit highlight, and every event
// updates the ledger regardless of its transition shape.
func (r *Reconciler) Apply(ev stream.MemberPresenceChanged) (domain.PresenceRecord, Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	isEntry := ev.EntryTime != nil && ev.ExitTime == nil
	isExit := ev.ExitTime != nil

	// Highlights are anchored at reconcile time, not the event's own
	// timestamp: the decay window measures how long the card stays on
	// screen, and a replayed frame must still get its display window.
	transition := TransitionNone
	switch {
	case isEntry:
		transition = TransitionEntry
		r.highlights.RecordEntry(domain.HighlightEntry{
			IdentityTag: ev.IdentityTag,
			DisplayName: ev.DisplayName,
			OccurredAt:  r.now(),
		})
	case isExit:
		transition = TransitionExit
		r.highlights.RecordExit(domain.HighlightEntry{
			IdentityTag: ev.IdentityTag,
			DisplayName: ev.DisplayName,
			OccurredAt:  r.now(),
		})
	}

	rec := r.ledger.Apply(ev)
	return rec, transition
}

// Classify resolves a staff scan through the ledger's classification rules
// under the same serialization as Apply.
func (r *Reconciler) Classify(ev stream.StaffScanDetected) domain.RoutingOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Classify(ev)
}
