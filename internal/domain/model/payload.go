package model

import "encoding/json"

// Payload holds the dynamically-typed data attached to a state.
// Values are restricted to the JSON value space: strings, numbers,
// booleans, nested mappings, and sequences.
type Payload map[string]interface{}

// Clone returns a recursive structural copy of the payload.
// Mutating the clone never affects the original.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = cloneValue(e)
		}
		return m
	case Payload:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = cloneValue(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = e
		}
		return s
	default:
		// Scalars (string, bool, numeric types) are immutable values
		return val
	}
}

// KindOf classifies an arbitrary payload value.
// The boolean result is false for values outside the supported space.
func KindOf(v interface{}) (Kind, bool) {
	switch v.(type) {
	case string:
		return KindString, true
	case bool:
		return KindBoolean, true
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber, true
	case map[string]interface{}, Payload:
		return KindMapping, true
	case []interface{}, []string:
		return KindSequence, true
	default:
		return "", false
	}
}

// Matches reports whether a value is of the given kind
func (k Kind) Matches(v interface{}) bool {
	got, ok := KindOf(v)
	return ok && got == k
}
