package validator

import "fmt"

// Issue represents a single validation issue
type Issue struct {
	Type    string `json:"type"` // "error" (reserved: "warn")
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// missingField reports an absent required field
func missingField(name string) Issue {
	return Issue{
		Type:    "error",
		Field:   name,
		Message: fmt.Sprintf("missing required field: %s", name),
	}
}

// wrongKind reports a field whose value does not match the declared kind
func wrongKind(name string, want string) Issue {
	return Issue{
		Type:    "error",
		Field:   name,
		Message: fmt.Sprintf("must be a %s", want),
	}
}

// Fields extracts the offending field names from a list of issues
func Fields(issues []Issue) []string {
	names := make([]string, 0, len(issues))
	for _, issue := range issues {
		names = append(names, issue.Field)
	}
	return names
}
