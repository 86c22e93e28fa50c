package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/app/config"
	"github.com/hollowmere/emberfall/internal/app/state"
	"github.com/hollowmere/emberfall/internal/domain/model"
	"github.com/hollowmere/emberfall/internal/infra/persistence/journal"
	"github.com/hollowmere/emberfall/internal/validator"
)

// session wires a state manager to its on-disk persistence: the
// exported state file and the snapshot journal. Each CLI invocation
// opens a session, runs one operation, and persists the result.
type session struct {
	fs      afero.Fs
	cfg     config.Config
	manager *state.Manager
	journal *journal.Journal
}

// buildEngine returns the default rule table, merged with the
// rules.yml overlay when one exists
func buildEngine(fs afero.Fs, cfg config.Config) (*validator.Engine, error) {
	engine := validator.NewEngine()
	if exists, _ := afero.Exists(fs, cfg.RulesPath()); exists {
		if err := validator.ApplyRulesFile(engine, fs, cfg.RulesPath()); err != nil {
			return nil, fmt.Errorf("failed to load validation rules: %w", err)
		}
	}
	return engine, nil
}

// openSession rebuilds the manager from the state file and journal
func openSession(cfg config.Config) (*session, error) {
	fs := afero.NewOsFs()

	engine, err := buildEngine(fs, cfg)
	if err != nil {
		return nil, err
	}

	manager := state.NewManager(engine, cfg.MaxHistory())

	j := journal.New(fs, cfg.JournalPath())
	snaps, err := j.Load(cfg.MaxHistory())
	if err != nil {
		return nil, err
	}
	manager.RestoreHistory(snaps)

	if exists, _ := afero.Exists(fs, cfg.StatePath()); exists {
		if err := manager.Import(fs, cfg.StatePath()); err != nil {
			return nil, fmt.Errorf("failed to restore session state: %w", err)
		}
	}

	return &session{fs: fs, cfg: cfg, manager: manager, journal: j}, nil
}

// persist writes the current state and rewrites the journal to match
// the in-memory history
func (s *session) persist() error {
	if err := s.manager.Export(s.fs, s.cfg.StatePath()); err != nil {
		return err
	}
	return s.journal.Rewrite(s.manager.History(0))
}

// parsePayload reads a payload from an inline JSON string or a file;
// exactly one source must be provided unless allowEmpty is set
func parsePayload(fs afero.Fs, data, fromFile string, allowEmpty bool) (model.Payload, error) {
	switch {
	case data != "" && fromFile != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case data == "" && fromFile == "":
		if allowEmpty {
			return model.Payload{}, nil
		}
		return nil, fmt.Errorf("payload required: pass --data or --file")
	}

	raw := []byte(data)
	if fromFile != "" {
		var err error
		raw, err = afero.ReadFile(fs, fromFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
	}

	var payload model.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("payload is not a JSON mapping: %w", err)
	}
	return payload, nil
}
