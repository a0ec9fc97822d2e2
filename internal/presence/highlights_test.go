package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

func TestHighlightWindowReplacesSlot(t *testing.T) {
	w := NewHighlightWindow(30 * time.Second)

	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime})
	w.RecordEntry(domain.HighlightEntry{IdentityTag: "B", OccurredAt: baseTime.Add(time.Second)})

	entry, exit := w.Highlights()
	require.NotNil(t, entry)
	assert.Equal(t, "B", entry.IdentityTag)
	assert.Equal(t, domain.HighlightKindEntry, entry.Kind)
	assert.Nil(t, exit)
}

func TestHighlightWindowEntryAndExitCoexistForDifferentTags(t *testing.T) {
	w := NewHighlightWindow(30 * time.Second)

	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime})
	w.RecordExit(domain.HighlightEntry{IdentityTag: "B", OccurredAt: baseTime})

	entry, exit := w.Highlights()
	require.NotNil(t, entry)
	require.NotNil(t, exit)
	assert.Equal(t, "A", entry.IdentityTag)
	assert.Equal(t, "B", exit.IdentityTag)
}

func TestHighlightWindowSameTagIsMutuallyExclusive(t *testing.T) {
	w := NewHighlightWindow(30 * time.Second)

	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime})
	w.RecordExit(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime.Add(time.Second)})

	entry, exit := w.Highlights()
	assert.Nil(t, entry)
	require.NotNil(t, exit)
	assert.Equal(t, "A", exit.IdentityTag)

	// Re-entering clears the stale exit highlight in turn.
	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime.Add(2 * time.Second)})
	entry, exit = w.Highlights()
	require.NotNil(t, entry)
	assert.Nil(t, exit)
}

func TestHighlightWindowSweep(t *testing.T) {
	w := NewHighlightWindow(30 * time.Second)

	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", OccurredAt: baseTime})
	w.RecordExit(domain.HighlightEntry{IdentityTag: "B", OccurredAt: baseTime.Add(10 * time.Second)})

	// 29s in: both inside their window.
	w.Sweep(baseTime.Add(29 * time.Second))
	entry, exit := w.Highlights()
	assert.NotNil(t, entry)
	assert.NotNil(t, exit)

	// 31s in: the entry has decayed, the younger exit has not.
	w.Sweep(baseTime.Add(31 * time.Second))
	entry, exit = w.Highlights()
	assert.Nil(t, entry)
	assert.NotNil(t, exit)

	w.Sweep(baseTime.Add(41 * time.Second))
	_, exit = w.Highlights()
	assert.Nil(t, exit)
}

func TestHighlightWindowReturnsCopies(t *testing.T) {
	w := NewHighlightWindow(30 * time.Second)
	w.RecordEntry(domain.HighlightEntry{IdentityTag: "A", DisplayName: "Ada", OccurredAt: baseTime})

	entry, _ := w.Highlights()
	entry.DisplayName = "mutated"

	again, _ := w.Highlights()
	assert.Equal(t, "Ada", again.DisplayName)
}
