package presence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-access-service/internal/domain"
	"github.com/spec-kit/gym-access-service/internal/stream"
)

func newTestSession(now *time.Time) *Session {
	return NewSession(Config{
		CoalesceWindow:  2 * time.Second,
		HighlightWindow: 30 * time.Second,
		SweepInterval:   time.Second,
		Now:             func() time.Time { return *now },
	}, nil)
}

func memberUpdateFrame(tag string, fields string) []byte {
	return []byte(fmt.Sprintf(`{"type":"member-update","data":{"rfid_tag":%q%s}}`, tag, fields))
}

func TestSessionTapInTapOut(t *testing.T) {
	now := baseTime
	s := newTestSession(&now)

	var transitions []Transition
	s.OnTransition(func(tr Transition, _ domain.PresenceRecord) {
		transitions = append(transitions, tr)
	})

	res := s.Deliver(memberUpdateFrame("TAG-1", `,"full_name":"Ada","entry_time":"2026-08-29T09:00:00Z"`))
	require.Empty(t, res.Discarded)
	require.NotNil(t, res.Record)
	assert.Equal(t, TransitionEntry, res.Transition)
	assert.Equal(t, domain.PresenceInside, res.Record.Status)

	view := s.GetSnapshot()
	assert.Equal(t, 1, view.InsideCount)
	assert.Equal(t, 0, view.OutsideCount)

	entry, exit := s.GetHighlights()
	require.NotNil(t, entry)
	assert.Equal(t, "TAG-1", entry.IdentityTag)
	assert.Nil(t, exit)

	now = now.Add(time.Hour)
	res = s.Deliver(memberUpdateFrame("TAG-1", `,"entry_time":"2026-08-29T09:00:00Z","exit_time":"2026-08-29T10:00:00Z"`))
	require.Empty(t, res.Discarded)
	assert.Equal(t, TransitionExit, res.Transition)
	assert.Equal(t, domain.PresenceOutside, res.Record.Status)
	// The sparse first frame never carried a name; the ledger kept it.
	assert.Equal(t, "Ada", res.Record.DisplayName)

	view = s.GetSnapshot()
	assert.Equal(t, 0, view.InsideCount)
	assert.Equal(t, 1, view.OutsideCount)

	entry, exit = s.GetHighlights()
	assert.Nil(t, entry)
	require.NotNil(t, exit)
	assert.Equal(t, "TAG-1", exit.IdentityTag)

	assert.Equal(t, []Transition{TransitionEntry, TransitionExit}, transitions)
}

func TestSessionDiscardedFrameLeavesStateUntouched(t *testing.T) {
	now := baseTime
	s := newTestSession(&now)

	s.Deliver(memberUpdateFrame("TAG-1", `,"entry_time":"2026-08-29T09:00:00Z"`))

	res := s.Deliver([]byte(`not even json`))
	assert.Equal(t, stream.DiscardMalformed, res.Discarded)
	assert.Nil(t, res.Record)

	res = s.Deliver(memberUpdateFrame("TAG-2", `,"status":"unregistered"`))
	assert.Equal(t, stream.DiscardUnregistered, res.Discarded)

	view := s.GetSnapshot()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "TAG-1", view.Records[0].IdentityTag)
}

func TestSessionStaffScanRouting(t *testing.T) {
	now := baseTime
	s := newTestSession(&now)

	var routed []domain.RoutingOutcome
	s.OnRoutingOutcome(func(out domain.RoutingOutcome) {
		routed = append(routed, out)
	})

	frame := []byte(`{"type":"staff-scan","data":{"rfid_tag":"TAG-9","status":"member_found","location":"STAFF","system_type":"prepaid","current_balance":500}}`)
	res := s.Deliver(frame)
	require.Empty(t, res.Discarded)
	require.NotNil(t, res.Routing)
	assert.Equal(t, domain.RoutingMemberFound, res.Routing.Kind)
	assert.Equal(t, domain.BillingKindPrepaid, res.Routing.BillingKind)
	require.NotNil(t, res.Routing.Supplemental.RemainingBalance)
	assert.Equal(t, 500.0, *res.Routing.Supplemental.RemainingBalance)

	// The hardware double-fires 500ms later; the duplicate is swallowed and
	// no second routing outcome reaches the callback.
	now = now.Add(500 * time.Millisecond)
	res = s.Deliver(frame)
	assert.Equal(t, stream.DiscardDuplicateScan, res.Discarded)
	assert.Nil(t, res.Routing)

	require.Len(t, routed, 1)
	assert.Equal(t, "TAG-9", routed[0].IdentityTag)

	// A staff scan never shows up in the presence ledger.
	view := s.GetSnapshot()
	assert.Empty(t, view.Records)
}

func TestSessionHighlightAnchoredAtReceipt(t *testing.T) {
	now := baseTime
	s := newTestSession(&now)

	// A replayed frame carries an hour-old entry timestamp but still earns
	// its full display window from the moment it arrived.
	s.Deliver(memberUpdateFrame("TAG-1", `,"entry_time":"2026-08-29T08:00:00Z"`))

	entry, _ := s.GetHighlights()
	require.NotNil(t, entry)
	assert.Equal(t, baseTime, entry.OccurredAt)
}
