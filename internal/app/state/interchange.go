package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/domain/model"
	"github.com/hollowmere/emberfall/internal/infra/persistence/file"
)

// interchange is the canonical export/import shape for manager state
type interchange struct {
	CurrentState string                 `json:"current_state"`
	StateData    map[string]interface{} `json:"state_data"`
	Timestamp    float64                `json:"timestamp"`
}

// Export writes the current state in the interchange shape, replacing
// the destination atomically
func (m *Manager) Export(fsys afero.Fs, path string) error {
	m.mu.Lock()
	out := interchange{
		CurrentState: m.current.String(),
		StateData:    m.payload.Clone(),
		Timestamp:    float64(time.Now().UnixNano()) / 1e9,
	}
	m.mu.Unlock()

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := file.WriteFileAtomic(fsys, path, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Import reads an interchange document, re-validates the incoming
// state type and payload, and commits them as the current state. On
// any failure the manager is left unchanged. Unlike a transition,
// import replaces the session wholesale and records no snapshot of
// the state being discarded.
func (m *Manager) Import(fsys afero.Fs, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	// Parse into a raw map first so missing keys are distinguishable
	// from zero values
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	for _, key := range []string{"current_state", "state_data"} {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("%w: missing key %q", ErrImportFormat, key)
		}
	}

	name, ok := raw["current_state"].(string)
	if !ok {
		return fmt.Errorf("%w: current_state must be a string", ErrImportFormat)
	}
	t, err := model.ParseStateType(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	stateData, ok := raw["state_data"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: state_data must be a mapping", ErrImportFormat)
	}
	payload := model.Payload(stateData)

	m.mu.Lock()
	defer m.mu.Unlock()

	if issues := m.engine.Validate(t, payload); len(issues) > 0 {
		return &ValidationError{State: t, Issues: issues}
	}

	m.current = t
	m.payload = payload.Clone()
	return nil
}
