package state

import (
	"fmt"
	"sync"

	"github.com/hollowmere/emberfall/internal/app"
	"github.com/hollowmere/emberfall/internal/domain/model"
	"github.com/hollowmere/emberfall/internal/validator"
)

// Manager is the single authority for what state the session is in.
// Every transition is validated, and every committed transition is
// preceded by a snapshot of the state being left. One Manager owns
// the live state and its history; the mutex makes the
// read-current/append-history/write-current unit atomic for any
// concurrent embedding.
type Manager struct {
	mu      sync.Mutex
	engine  *validator.Engine
	history *History
	current model.StateType
	payload model.Payload
}

// NewManager creates a manager starting in the main menu with an
// empty payload
func NewManager(engine *validator.Engine, maxHistory int) *Manager {
	if engine == nil {
		engine = validator.NewEngine()
	}
	return &Manager{
		engine:  engine,
		history: NewHistory(maxHistory),
		current: model.StateMainMenu,
		payload: model.Payload{},
	}
}

// Current returns the current state type and a copy of its payload
func (m *Manager) Current() (model.StateType, model.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.payload.Clone()
}

// Transition validates the new payload against the target type's
// rules, snapshots the state being left, and commits the new state.
// On validation failure the manager is left untouched and no snapshot
// is taken; the returned *ValidationError names the failed fields.
func (m *Manager) Transition(t model.StateType, payload model.Payload) error {
	if !t.IsValid() {
		return fmt.Errorf("unknown state type: %q", t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if issues := m.engine.Validate(t, payload); len(issues) > 0 {
		return &ValidationError{State: t, Issues: issues}
	}

	m.history.Record(m.current, m.payload)
	m.current = t
	m.payload = payload.Clone()
	app.GetLogger().Debug("state transition committed: %s", t)
	return nil
}

// UpdateFields snapshots the current state unconditionally, then
// merges each key/value into the current payload. The merge is a
// shallow key-level overwrite; values are deep-copied in. Partial
// updates are not validated.
func (m *Manager) UpdateFields(updates model.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history.Record(m.current, m.payload)
	for k, v := range updates.Clone() {
		m.payload[k] = v
	}
	return nil
}

// Rollback restores the state recorded `steps` transitions ago,
// discarding the history entries more recent than the target
func (m *Manager) Rollback(steps int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.history.Rollback(steps)
	if err != nil {
		return err
	}
	m.current = snap.Type
	m.payload = snap.Data
	app.GetLogger().Info("rolled back %d step(s) to %s", steps, snap.Type)
	return nil
}

// History returns recorded snapshots oldest-first; limit <= 0 returns
// the full history
func (m *Manager) History(limit int) []model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Entries(limit)
}

// HistoryLen returns the current history depth
func (m *Manager) HistoryLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Len()
}

// ClearHistory empties the snapshot history. Irreversible.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.Clear()
}

// RestoreHistory rebuilds the history from persisted snapshots,
// keeping only the newest entries that fit the configured capacity
func (m *Manager) RestoreHistory(snaps []model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.Restore(snaps)
}

// AddValidationRule extends the rules for a state type. A new type
// gets the rule set as-is; an existing one is merged field-by-field
// with later declarations winning on conflict. Already-recorded
// snapshots are unaffected.
func (m *Manager) AddValidationRule(t model.StateType, rs validator.RuleSet) {
	m.engine.Merge(t, rs)
}
