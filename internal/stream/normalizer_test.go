package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNormalizeDiscards(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason DiscardReason
	}{
		{
			name:   "not json",
			raw:    `{{{`,
			reason: DiscardMalformed,
		},
		{
			name:   "unknown event type",
			raw:    `{"type":"door-chime","data":{}}`,
			reason: DiscardUnknownType,
		},
		{
			name:   "member update without tag",
			raw:    `{"type":"member-update","data":{"full_name":"Ada"}}`,
			reason: DiscardMissingTag,
		},
		{
			name:   "unregistered status",
			raw:    `{"type":"member-update","data":{"rfid_tag":"T1","status":"unregistered"}}`,
			reason: DiscardUnregistered,
		},
		{
			name:   "unknown status string",
			raw:    `{"type":"member-update","data":{"rfid_tag":"T1","status":"limbo"}}`,
			reason: DiscardMalformed,
		},
		{
			name:   "unparseable entry time",
			raw:    `{"type":"member-update","data":{"rfid_tag":"T1","entry_time":"yesterday"}}`,
			reason: DiscardMalformed,
		},
		{
			name:   "staff scan without tag",
			raw:    `{"type":"staff-scan","data":{"location":"STAFF"}}`,
			reason: DiscardMissingTag,
		},
		{
			name:   "staff scan from member gate",
			raw:    `{"type":"staff-scan","data":{"rfid_tag":"T1","location":"GATE_2","status":"member_found"}}`,
			reason: DiscardWrongStation,
		},
	}

	n := NewNormalizer(0, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, reason := n.Normalize([]byte(tt.raw))
			assert.Nil(t, ev)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNormalizeMemberUpdate(t *testing.T) {
	n := NewNormalizer(0, nil)

	raw := `{"type":"member-update","data":{
		"rfid_tag":"TAG-7",
		"full_name":"Ada Lovelace",
		"profile_image_url":"https://cdn.example.com/ada.png",
		"entry_time":"2026-08-29T09:15:00Z",
		"status":"inside",
		"visitor_type":"member",
		"system_type":"prepaid",
		"deducted_amount":25,
		"remaining_balance":475.5
	}}`

	ev, reason := n.Normalize([]byte(raw))
	require.Equal(t, DiscardNone, reason)

	mp, ok := ev.(MemberPresenceChanged)
	require.True(t, ok)

	assert.Equal(t, "TAG-7", mp.IdentityTag)
	assert.Equal(t, "Ada Lovelace", mp.DisplayName)
	require.NotNil(t, mp.Status)
	assert.Equal(t, domain.PresenceInside, *mp.Status)
	require.NotNil(t, mp.EntryTime)
	assert.Equal(t, time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC), mp.EntryTime.UTC())
	assert.Nil(t, mp.ExitTime)
	assert.Equal(t, domain.VisitorKindMember, mp.VisitorKind)
	assert.Equal(t, domain.BillingKindPrepaid, mp.BillingKind)
	assert.True(t, mp.BillingKindKnown)
	require.NotNil(t, mp.RemainingBalance)
	assert.Equal(t, 475.5, *mp.RemainingBalance)
	require.NotNil(t, mp.DeductedAmount)
	assert.Equal(t, 25.0, *mp.DeductedAmount)
}

func TestNormalizeMemberUpdateSparseFrame(t *testing.T) {
	// A frame restating only the tag must not fabricate values for the
	// fields it omits.
	n := NewNormalizer(0, nil)

	ev, reason := n.Normalize([]byte(`{"type":"member-update","data":{"rfid_tag":"TAG-7"}}`))
	require.Equal(t, DiscardNone, reason)

	mp := ev.(MemberPresenceChanged)
	assert.Nil(t, mp.Status)
	assert.Nil(t, mp.EntryTime)
	assert.Nil(t, mp.ExitTime)
	assert.Empty(t, mp.VisitorKind)
	assert.Empty(t, mp.BillingKind)
	assert.True(t, mp.BillingKindKnown)
	assert.Nil(t, mp.RemainingBalance)
}

func TestNormalizeMemberUpdateUnknownBillingKind(t *testing.T) {
	n := NewNormalizer(0, nil)

	ev, reason := n.Normalize([]byte(`{"type":"member-update","data":{"rfid_tag":"TAG-7","system_type":"barter"}}`))
	require.Equal(t, DiscardNone, reason)

	mp := ev.(MemberPresenceChanged)
	assert.False(t, mp.BillingKindKnown)
}

func TestNormalizeStaffScan(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	n := NewNormalizer(2*time.Second, fixedClock(at))

	raw := `{"type":"staff-scan","data":{
		"rfid_tag":"TAG-9",
		"status":"member_found",
		"location":"STAFF",
		"full_name":"Grace Hopper",
		"system_type":"subscription",
		"subscription_expiry":"2026-12-31T00:00:00Z"
	}}`

	ev, reason := n.Normalize([]byte(raw))
	require.Equal(t, DiscardNone, reason)

	ss, ok := ev.(StaffScanDetected)
	require.True(t, ok)
	assert.Equal(t, "TAG-9", ss.IdentityTag)
	assert.Equal(t, ScanOutcomeMemberFound, ss.Outcome)
	assert.Equal(t, domain.BillingKindSubscription, ss.BillingKind)
	assert.True(t, ss.BillingKindKnown)
	assert.Equal(t, at, ss.ScannedAt)
	require.NotNil(t, ss.SubscriptionExpiry)
}

func TestStaffScanCoalescing(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	n := NewNormalizer(2*time.Second, func() time.Time { return now })

	frame := []byte(`{"type":"staff-scan","data":{"rfid_tag":"TAG-9","status":"member_found","location":"STAFF"}}`)

	_, reason := n.Normalize(frame)
	require.Equal(t, DiscardNone, reason)

	// Same tag 500ms later: suppressed as a double-fire of one tap.
	now = now.Add(500 * time.Millisecond)
	_, reason = n.Normalize(frame)
	assert.Equal(t, DiscardDuplicateScan, reason)

	// A different tag inside the window is not affected.
	other := []byte(`{"type":"staff-scan","data":{"rfid_tag":"TAG-10","status":"member_found","location":"STAFF"}}`)
	_, reason = n.Normalize(other)
	assert.Equal(t, DiscardNone, reason)

	// Past the window the same tag is accepted again.
	now = now.Add(3 * time.Second)
	_, reason = n.Normalize(frame)
	assert.Equal(t, DiscardNone, reason)
}
