package presence

import (
	"sync"
	"time"

	"github.com/spec-kit/gym-access-service/internal/domain"
)

// HighlightWindow holds the "just happened" entry and exit for prominent
// display, decoupled from the ledger's authoritative state. At most one
// entry-kind and one exit-kind highlight exist at a time: the newest
// transition replaces the slot rather than queueing behind it.
type HighlightWindow struct {
	mu     sync.Mutex
	window time.Duration
	entry  *domain.HighlightEntry
	exit   *domain.HighlightEntry
}

// NewHighlightWindow builds a window with the given decay interval.
func NewHighlightWindow(window time.Duration) *HighlightWindow {
	return &HighlightWindow{window: window}
}

// RecordEntry replaces the entry slot. Any exit highlight for the same tag is
// cleared: an identity that just entered must not still show as recently
// exited.
func (w *HighlightWindow) RecordEntry(h domain.HighlightEntry) {
	h.Kind = domain.HighlightKindEntry
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entry = &h
	if w.exit != nil && w.exit.IdentityTag == h.IdentityTag {
		w.exit = nil
	}
}

// RecordExit replaces the exit slot and clears any entry highlight for the
// same tag.
func (w *HighlightWindow) RecordExit(h domain.HighlightEntry) {
	h.Kind = domain.HighlightKindExit
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exit = &h
	if w.entry != nil && w.entry.IdentityTag == h.IdentityTag {
		w.entry = nil
	}
}

// Sweep clears either slot once its highlight has outlived the window.
// Called on a periodic tick by the owning session.
func (w *HighlightWindow) Sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entry != nil && now.Sub(w.entry.OccurredAt) > w.window {
		w.entry = nil
	}
	if w.exit != nil && now.Sub(w.exit.OccurredAt) > w.window {
		w.exit = nil
	}
}

// Highlights returns copies of the current entry and exit highlights; either
// may be nil.
func (w *HighlightWindow) Highlights() (entry, exit *domain.HighlightEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entry != nil {
		e := *w.entry
		entry = &e
	}
	if w.exit != nil {
		e := *w.exit
		exit = &e
	}
	return entry, exit
}
