package validator

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hollowmere/emberfall/internal/domain/model"
)

// rawRuleSet is the YAML shape of one rule set in a rules file
type rawRuleSet struct {
	Required []string          `yaml:"required"`
	Fields   map[string]string `yaml:"fields"`
}

// LoadRules parses a YAML rules file into per-state-type rule sets.
// The file maps state type names to required fields and field kinds:
//
//	combat:
//	  required: [enemies, player_stats, combat_round]
//	  fields:
//	    combat_round: number
func LoadRules(fsys afero.Fs, path string) (map[model.StateType]RuleSet, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var raw map[string]rawRuleSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	out := make(map[model.StateType]RuleSet, len(raw))
	for name, rr := range raw {
		t, err := model.ParseStateType(name)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
		rs := RuleSet{
			Required:   append([]string(nil), rr.Required...),
			FieldTypes: make(map[string]model.Kind, len(rr.Fields)),
		}
		for field, kindName := range rr.Fields {
			kind, err := model.ParseKind(kindName)
			if err != nil {
				return nil, fmt.Errorf("rules file %s: field %s: %w", path, field, err)
			}
			rs.FieldTypes[field] = kind
		}
		out[t] = rs
	}
	return out, nil
}

// ApplyRulesFile merges every rule set in a YAML rules file into the
// engine. Existing registrations are extended, not replaced.
func ApplyRulesFile(e *Engine, fsys afero.Fs, path string) error {
	loaded, err := LoadRules(fsys, path)
	if err != nil {
		return err
	}
	for t, rs := range loaded {
		e.Merge(t, rs)
	}
	return nil
}
