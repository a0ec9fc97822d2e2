package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func statusPtr(s domain.PresenceStatus) *domain.PresenceStatus { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var baseTime = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

func TestLedgerCreatesRecordOnFirstSight(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	rec := l.Apply(stream.MemberPresenceChanged{
		IdentityTag: "TAG-1",
		DisplayName: "Ada",
		EntryTime:   timePtr(baseTime),
	})

	assert.Equal(t, "TAG-1", rec.IdentityTag)
	assert.Equal(t, domain.PresenceInside, rec.Status)
	assert.Equal(t, baseTime, rec.LastActivity)

	got, ok := l.Get("TAG-1")
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestLedgerDefaultsNewRecordToOutside(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	// No status, no timestamps: nothing to derive from.
	rec := l.Apply(stream.MemberPresenceChanged{IdentityTag: "TAG-1"})
	assert.Equal(t, domain.PresenceOutside, rec.Status)
	assert.Equal(t, baseTime, rec.LastActivity)
}

func TestLedgerMergePreservesAbsentFields(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	l.Apply(stream.MemberPresenceChanged{
		IdentityTag:      "TAG-1",
		DisplayName:      "Ada",
		ProfileImageURL:  "https://cdn.example.com/ada.png",
		VisitorKind:      domain.VisitorKindMember,
		BillingKind:      domain.BillingKindPrepaid,
		BillingKindKnown: true,
		EntryTime:        timePtr(baseTime),
		RemainingBalance: floatPtr(500),
	})

	// A sparse follow-up frame restates only the tag and an exit.
	rec := l.Apply(stream.MemberPresenceChanged{
		IdentityTag: "TAG-1",
		ExitTime:    timePtr(baseTime.Add(time.Hour)),
	})

	assert.Equal(t, "Ada", rec.DisplayName)
	assert.Equal(t, "https://cdn.example.com/ada.png", rec.ProfileImageURL)
	assert.Equal(t, domain.VisitorKindMember, rec.VisitorKind)
	assert.Equal(t, domain.BillingKindPrepaid, rec.BillingKind)
	require.NotNil(t, rec.Supplemental.RemainingBalance)
	assert.Equal(t, 500.0, *rec.Supplemental.RemainingBalance)
	require.NotNil(t, rec.EntryTime)
	assert.Equal(t, domain.PresenceOutside, rec.Status)
	assert.Equal(t, baseTime.Add(time.Hour), rec.LastActivity)
}

func TestLedgerExplicitStatusWinsOverTimestamps(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	rec := l.Apply(stream.MemberPresenceChanged{
		IdentityTag: "TAG-1",
		Status:      statusPtr(domain.PresenceInside),
		ExitTime:    timePtr(baseTime),
	})
	assert.Equal(t, domain.PresenceInside, rec.Status)
}

func TestLedgerRepeatedExitIsIdempotent(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	l.Apply(stream.MemberPresenceChanged{IdentityTag: "TAG-1", EntryTime: timePtr(baseTime)})

	exit := stream.MemberPresenceChanged{IdentityTag: "TAG-1", ExitTime: timePtr(baseTime.Add(time.Hour))}
	first := l.Apply(exit)
	second := l.Apply(exit)

	assert.Equal(t, first, second)
	inside, outside := l.CountByStatus()
	assert.Equal(t, 0, inside)
	assert.Equal(t, 1, outside)
}

func TestLedgerSnapshotOrdering(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	l.Apply(stream.MemberPresenceChanged{IdentityTag: "A", EntryTime: timePtr(baseTime)})
	l.Apply(stream.MemberPresenceChanged{IdentityTag: "B", EntryTime: timePtr(baseTime.Add(time.Minute))})
	l.Apply(stream.MemberPresenceChanged{IdentityTag: "C", EntryTime: timePtr(baseTime.Add(2 * time.Minute))})

	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "C", snap[0].IdentityTag)
	assert.Equal(t, "B", snap[1].IdentityTag)
	assert.Equal(t, "A", snap[2].IdentityTag)

	// New activity on A moves it to the front.
	l.Apply(stream.MemberPresenceChanged{IdentityTag: "A", ExitTime: timePtr(baseTime.Add(3 * time.Minute))})
	snap = l.Snapshot()
	assert.Equal(t, "A", snap[0].IdentityTag)
}

func TestLedgerSnapshotTieBreaksByInsertionOrder(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	l.Apply(stream.MemberPresenceChanged{IdentityTag: "A", EntryTime: timePtr(baseTime)})
	l.Apply(stream.MemberPresenceChanged{IdentityTag: "B", EntryTime: timePtr(baseTime)})

	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "A", snap[0].IdentityTag)
	assert.Equal(t, "B", snap[1].IdentityTag)
}

func TestLedgerSnapshotReturnsCopies(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))
	l.Apply(stream.MemberPresenceChanged{
		IdentityTag:      "TAG-1",
		EntryTime:        timePtr(baseTime),
		RemainingBalance: floatPtr(100),
	})

	snap := l.Snapshot()
	snap[0].DisplayName = "mutated"
	*snap[0].Supplemental.RemainingBalance = -1

	got, _ := l.Get("TAG-1")
	assert.Empty(t, got.DisplayName)
	assert.Equal(t, 100.0, *got.Supplemental.RemainingBalance)
}

func TestLedgerClassify(t *testing.T) {
	l := NewLedger(fixedClock(baseTime))

	t.Run("member found with prepaid billing", func(t *testing.T) {
		out := l.Classify(stream.StaffScanDetected{
			IdentityTag:      "TAG-1",
			DisplayName:      "Ada",
			Outcome:          stream.ScanOutcomeMemberFound,
			BillingKind:      domain.BillingKindPrepaid,
			BillingKindKnown: true,
			CurrentBalance:   floatPtr(500),
			ScannedAt:        baseTime,
		})
		assert.Equal(t, domain.RoutingMemberFound, out.Kind)
		assert.Equal(t, domain.BillingKindPrepaid, out.BillingKind)
		require.NotNil(t, out.Supplemental.RemainingBalance)
		assert.Equal(t, 500.0, *out.Supplemental.RemainingBalance)
	})

	t.Run("unrecognized tag routes to registration", func(t *testing.T) {
		out := l.Classify(stream.StaffScanDetected{
			IdentityTag:      "TAG-X",
			Outcome:          stream.ScanOutcomeUnregistered,
			BillingKindKnown: true,
		})
		assert.Equal(t, domain.RoutingUnregistered, out.Kind)
	})

	t.Run("member found with unknown billing kind", func(t *testing.T) {
		out := l.Classify(stream.StaffScanDetected{
			IdentityTag:      "TAG-1",
			Outcome:          stream.ScanOutcomeMemberFound,
			BillingKindKnown: false,
		})
		assert.Equal(t, domain.RoutingUnknownBillingKind, out.Kind)
	})

	t.Run("member found without billing field falls back to none", func(t *testing.T) {
		out := l.Classify(stream.StaffScanDetected{
			IdentityTag:      "TAG-1",
			Outcome:          stream.ScanOutcomeMemberFound,
			BillingKindKnown: true,
		})
		assert.Equal(t, domain.RoutingMemberFound, out.Kind)
		assert.Equal(t, domain.BillingKindNone, out.BillingKind)
	})
}
