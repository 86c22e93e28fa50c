package validator

import (
	"sort"
	"sync"

	"github.com/hollowmere/emberfall/internal/domain/model"
)

// RuleSet describes the admissible payloads for one state type:
// which fields must be present, and what kind of value each known
// field must carry. Fields outside FieldTypes are not checked.
type RuleSet struct {
	Required   []string              `yaml:"required"`
	FieldTypes map[string]model.Kind `yaml:"fields"`
}

// Clone returns an independent copy of the rule set
func (r RuleSet) Clone() RuleSet {
	out := RuleSet{
		Required:   append([]string(nil), r.Required...),
		FieldTypes: make(map[string]model.Kind, len(r.FieldTypes)),
	}
	for k, v := range r.FieldTypes {
		out.FieldTypes[k] = v
	}
	return out
}

// Engine decides payload admissibility per state type.
// State types without a registered rule set are admitted
// unconditionally.
type Engine struct {
	mu    sync.RWMutex
	rules map[model.StateType]RuleSet
}

// NewEngine creates an engine preloaded with the default rule table
func NewEngine() *Engine {
	e := NewEmptyEngine()
	for t, rs := range defaultRules() {
		e.rules[t] = rs
	}
	return e
}

// NewEmptyEngine creates an engine with no rules registered
func NewEmptyEngine() *Engine {
	return &Engine{rules: make(map[model.StateType]RuleSet)}
}

// Validate checks a candidate payload against the rules registered for
// the state type. It returns one issue per missing required field and
// one per kind mismatch; an empty result means the payload is admitted.
// Validate is a pure predicate over its inputs and the rule table.
func (e *Engine) Validate(t model.StateType, payload model.Payload) []Issue {
	e.mu.RLock()
	rs, ok := e.rules[t]
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	var issues []Issue
	for _, name := range rs.Required {
		if _, exists := payload[name]; !exists {
			issues = append(issues, missingField(name))
		}
	}

	// Deterministic ordering for reported kind mismatches
	names := make([]string, 0, len(rs.FieldTypes))
	for name := range rs.FieldTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, exists := payload[name]
		if !exists {
			continue
		}
		if kind := rs.FieldTypes[name]; !kind.Matches(value) {
			issues = append(issues, wrongKind(name, kind.String()))
		}
	}
	return issues
}

// Register replaces the rule set for a state type
func (e *Engine) Register(t model.StateType, rs RuleSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[t] = rs.Clone()
}

// Merge additively merges a rule set into the one registered for the
// state type. Required fields are unioned; on a field declared with a
// different kind on both sides, the incoming declaration wins.
func (e *Engine) Merge(t model.StateType, rs RuleSet) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, ok := e.rules[t]
	if !ok {
		e.rules[t] = rs.Clone()
		return
	}

	merged := existing.Clone()
	for _, name := range rs.Required {
		if !contains(merged.Required, name) {
			merged.Required = append(merged.Required, name)
		}
	}
	for name, kind := range rs.FieldTypes {
		merged.FieldTypes[name] = kind
	}
	e.rules[t] = merged
}

// Rules returns a copy of the rule set registered for a state type
func (e *Engine) Rules(t model.StateType) (RuleSet, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.rules[t]
	if !ok {
		return RuleSet{}, false
	}
	return rs.Clone(), true
}

// RegisteredTypes returns the state types with rules, sorted by name
func (e *Engine) RegisteredTypes() []model.StateType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]model.StateType, 0, len(e.rules))
	for t := range e.rules {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
