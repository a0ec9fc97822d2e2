package presence

import (
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

// Ledger is the authoritative map from identity tag to presence record: the
// single source of truth for "who is currently inside". Records are created
// on first sight of a tag and updated in place afterwards, never removed.
//
// One mutex over the whole map serializes mutation; event rates here are a
// handful per second at the busiest gate, so finer-grained locking buys
// nothing.
type Ledger struct {
	mu      sync.Mutex
	byTag   map[string]*domain.PresenceRecord
	inOrder []*domain.PresenceRecord
	now     func() time.Time
}

// NewLedger builds an empty ledger. A nil now func defaults to time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		byTag: make(map[string]*domain.PresenceRecord),
		now:   now,
	}
}

// Apply upserts the record for the event's tag and returns a copy of the
// resulting record.
//
// Merge rule: fields present in the event overwrite, fields absent preserve
// prior values. Status comes from the event when explicit, is derived from
// the entry/exit timestamp shape when not, and defaults to Outside for a
// brand-new record. Repeated exits are idempotent. LastActivity is
// exit ?? entry ?? now, last write wins; out-of-order frames are not
// reordered (the transport delivers per-tag frames chronologically).
func (l *Ledger) Apply(ev stream.MemberPresenceChanged) domain.PresenceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.byTag[ev.IdentityTag]
	if !ok {
		rec = &domain.PresenceRecord{
			IdentityTag: ev.IdentityTag,
			Status:      domain.PresenceOutside,
		}
		l.byTag[ev.IdentityTag] = rec
		l.inOrder = append(l.inOrder, rec)
	}

	if ev.DisplayName != "" {
		rec.DisplayName = ev.DisplayName
	}
	if ev.ProfileImageURL != "" {
		rec.ProfileImageURL = ev.ProfileImageURL
	}
	if ev.VisitorKind != "" {
		rec.VisitorKind = ev.VisitorKind
	}
	if ev.BillingKindKnown && ev.BillingKind != "" {
		rec.BillingKind = ev.BillingKind
	}
	if ev.EntryTime != nil {
		t := *ev.EntryTime
		rec.EntryTime = &t
	}
	if ev.ExitTime != nil {
		t := *ev.ExitTime
		rec.ExitTime = &t
	}
	if ev.RemainingBalance != nil {
		v := *ev.RemainingBalance
		rec.Supplemental.RemainingBalance = &v
	}
	if ev.DeductedAmount != nil {
		v := *ev.DeductedAmount
		rec.Supplemental.LastDeduction = &v
	}
	if ev.SubscriptionExpiry != nil {
		t := *ev.SubscriptionExpiry
		rec.Supplemental.SubscriptionExpiry = &t
	}

	switch {
	case ev.Status != nil:
		rec.Status = *ev.Status
	case ev.ExitTime != nil:
		rec.Status = domain.PresenceOutside
	case ev.EntryTime != nil:
		rec.Status = domain.PresenceInside
	}

	switch {
	case ev.ExitTime != nil:
		rec.LastActivity = *ev.ExitTime
	case ev.EntryTime != nil:
		rec.LastActivity = *ev.EntryTime
	default:
		rec.LastActivity = l.now()
	}

	return cloneRecord(rec)
}

// Classify resolves a staff-station scan into a routing outcome. This is a
// pure classification; the membership transaction itself (top-up, renewal,
// registration) is the caller's responsibility.
func (l *Ledger) Classify(ev stream.StaffScanDetected) domain.RoutingOutcome {
	out := domain.RoutingOutcome{
		IdentityTag: ev.IdentityTag,
		DisplayName: ev.DisplayName,
		ScannedAt:   ev.ScannedAt,
	}

	if ev.Outcome != stream.ScanOutcomeMemberFound {
		// Anything the scanner did not resolve to a member routes to the
		// registration screen.
		out.Kind = domain.RoutingUnregistered
		return out
	}

	if !ev.BillingKindKnown {
		out.Kind = domain.RoutingUnknownBillingKind
		return out
	}

	out.Kind = domain.RoutingMemberFound
	out.BillingKind = ev.BillingKind
	if out.BillingKind == "" {
		out.BillingKind = domain.BillingKindNone
	}
	if ev.CurrentBalance != nil {
		v := *ev.CurrentBalance
		out.Supplemental.RemainingBalance = &v
	}
	if ev.SubscriptionExpiry != nil {
		t := *ev.SubscriptionExpiry
		out.Supplemental.SubscriptionExpiry = &t
	}
	return out
}

// Snapshot returns copies of all records sorted descending by LastActivity,
// ties broken by insertion order. The ordering is recomputed on every call
// because LastActivity mutates in place.
func (l *Ledger) Snapshot() []domain.PresenceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.PresenceRecord, 0, len(l.inOrder))
	for _, rec := range l.inOrder {
		out = append(out, cloneRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

// CountByStatus returns how many records are currently inside and outside.
func (l *Ledger) CountByStatus() (inside, outside int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range l.inOrder {
		if rec.Status == domain.PresenceInside {
			inside++
		} else {
			outside++
		}
	}
	return inside, outside
}

// Get returns a copy of the record for tag, if one exists.
func (l *Ledger) Get(tag string) (domain.PresenceRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.byTag[tag]
	if !ok {
		return domain.PresenceRecord{}, false
	}
	return cloneRecord(rec), true
}

func cloneRecord(rec *domain.PresenceRecord) domain.PresenceRecord {
	out := *rec
	out.EntryTime = cloneTime(rec.EntryTime)
	out.ExitTime = cloneTime(rec.ExitTime)
	out.Supplemental.RemainingBalance = cloneFloat(rec.Supplemental.RemainingBalance)
	out.Supplemental.LastDeduction = cloneFloat(rec.Supplemental.LastDeduction)
	out.Supplemental.SubscriptionExpiry = cloneTime(rec.Supplemental.SubscriptionExpiry)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
