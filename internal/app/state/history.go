package state

import (
	"github.com/hollowmere/emberfall/internal/domain/model"
)

// DefaultMaxHistory bounds the snapshot history when no explicit
// capacity is configured
const DefaultMaxHistory = 50

// History is the bounded append-only snapshot store backing rollback.
// Entries are ordered oldest-first. History is not safe for concurrent
// use on its own; the Manager serializes access to it.
type History struct {
	max     int
	entries []model.Snapshot
}

// NewHistory creates a history bounded to max snapshots
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &History{max: max}
}

// Record appends a snapshot of the given state. On overflow the oldest
// entry is evicted; eviction only ever happens on overflow.
func (h *History) Record(t model.StateType, payload model.Payload) model.Snapshot {
	snap := model.NewSnapshot(t, payload)
	h.entries = append(h.entries, snap)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
	return snap
}

// Rollback removes the snapshot `steps` positions back from the end,
// along with everything recorded after it, and returns it. Entries
// more recent than the target are discarded, not hidden.
func (h *History) Rollback(steps int) (model.Snapshot, error) {
	if steps < 1 || steps > len(h.entries) {
		return model.Snapshot{}, ErrRollbackOutOfRange
	}
	idx := len(h.entries) - steps
	snap := h.entries[idx]
	h.entries = h.entries[:idx]
	return snap, nil
}

// Entries returns the recorded snapshots oldest-first, payloads
// deep-copied so stored history cannot be mutated through the result.
// A limit of 0 or less returns the full history; otherwise the last
// `limit` entries are returned.
func (h *History) Entries(limit int) []model.Snapshot {
	start := 0
	if limit > 0 && limit < len(h.entries) {
		start = len(h.entries) - limit
	}
	out := make([]model.Snapshot, 0, len(h.entries)-start)
	for _, snap := range h.entries[start:] {
		copied := snap
		copied.Data = snap.Data.Clone()
		out = append(out, copied)
	}
	return out
}

// Len returns the number of recorded snapshots
func (h *History) Len() int {
	return len(h.entries)
}

// Clear empties the history. Irreversible.
func (h *History) Clear() {
	h.entries = nil
}

// Restore replaces the history contents, keeping only the newest
// entries that fit the capacity. Used to rebuild a session from a
// persisted snapshot journal.
func (h *History) Restore(snaps []model.Snapshot) {
	if len(snaps) > h.max {
		snaps = snaps[len(snaps)-h.max:]
	}
	h.entries = make([]model.Snapshot, len(snaps))
	copy(h.entries, snaps)
}
