// Package refresh gates screen data fetches so that each screen refetches at
// most once between "data changed" signals.
package refresh

import (
	"sort"
	"sync"
)

// State is the refresh state of one screen.
type State string

const (
	NeedsRefresh     State = "needs_refresh"
	AlreadyRefreshed State = "already_refreshed"
)

// Tracker is the registry for one session scope. The zero value is usable.
//
// A screen that was never seeded counts as NeedsRefresh: its first CanUpdate
// returns true and registers it, so later resets include it.
type Tracker struct {
	mu      sync.Mutex
	screens map[string]State
}

// NewTracker returns a tracker seeded with the given screens.
func NewTracker(defaults ...string) *Tracker {
	t := &Tracker{}
	t.SetDefaultScreens(defaults)
	return t
}

// CanUpdate reports whether screenID should fetch now and consumes that
// authorisation. Exactly one call returns true per reset.
func (t *Tracker) CanUpdate(screenID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screens == nil {
		t.screens = make(map[string]State)
	}
	if t.screens[screenID] == AlreadyRefreshed {
		return false
	}
	t.screens[screenID] = AlreadyRefreshed
	return true
}

// ResetUpdates flips every registered screen back to NeedsRefresh.
func (t *Tracker) ResetUpdates() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id := range t.screens {
		t.screens[id] = NeedsRefresh
	}
}

// SetDefaultScreens replaces all state with ids, each needing a refresh.
func (t *Tracker) SetDefaultScreens(ids []string) {
	screens := make(map[string]State, len(ids))
	for _, id := range ids {
		screens[id] = NeedsRefresh
	}

	t.mu.Lock()
	t.screens = screens
	t.mu.Unlock()
}

// Snapshot copies the current registry.
func (t *Tracker) Snapshot() map[string]State {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]State, len(t.screens))
	for id, state := range t.screens {
		out[id] = state
	}
	return out
}

// Screens lists the registered screen ids in lexical order.
func (t *Tracker) Screens() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.screens))
	for id := range t.screens {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
