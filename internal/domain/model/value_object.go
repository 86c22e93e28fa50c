package model

import (
	"fmt"
)

// StateType identifies the mode a game session is in
type StateType string

const (
	StateMainMenu    StateType = "main_menu"
	StateExploration StateType = "exploration"
	StateCombat      StateType = "combat"
	StateDialogue    StateType = "dialogue"
	StateInventory   StateType = "inventory"
	StateQuest       StateType = "quest"
	StateShop        StateType = "shop"
	StateCharacter   StateType = "character"
)

// String returns the string representation
func (t StateType) String() string {
	return string(t)
}

// IsValid validates the state type
func (t StateType) IsValid() bool {
	switch t {
	case StateMainMenu, StateExploration, StateCombat, StateDialogue,
		StateInventory, StateQuest, StateShop, StateCharacter:
		return true
	default:
		return false
	}
}

// ParseStateType converts a string into a StateType
func ParseStateType(s string) (StateType, error) {
	t := StateType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown state type: %q", s)
	}
	return t, nil
}

// AllStateTypes returns every known state type
func AllStateTypes() []StateType {
	return []StateType{
		StateMainMenu, StateExploration, StateCombat, StateDialogue,
		StateInventory, StateQuest, StateShop, StateCharacter,
	}
}

// Kind classifies the value stored under a payload field
type Kind string

const (
	KindString   Kind = "string"
	KindNumber   Kind = "number"
	KindBoolean  Kind = "boolean"
	KindMapping  Kind = "mapping"
	KindSequence Kind = "sequence"
)

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// IsValid validates the kind
func (k Kind) IsValid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindMapping, KindSequence:
		return true
	default:
		return false
	}
}

// ParseKind converts a string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown value kind: %q", s)
	}
	return k, nil
}
