package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hollowmere/emberfall/internal/domain/model"
	"github.com/hollowmere/emberfall/internal/validator"
)

var (
	// ErrRollbackOutOfRange is returned when a rollback requests more
	// steps than the history currently holds
	ErrRollbackOutOfRange = errors.New("rollback steps exceed history depth")

	// ErrImportFormat is returned when an interchange payload is missing
	// required keys or names an unrecognized state type
	ErrImportFormat = errors.New("invalid state interchange format")
)

// ValidationError reports a rejected payload together with the
// offending fields, so callers can surface a human-readable reason
type ValidationError struct {
	State  model.StateType
	Issues []validator.Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Sprintf("validation failed for %s: %s", e.State, strings.Join(msgs, "; "))
}

// Fields returns the names of the fields that failed validation
func (e *ValidationError) Fields() []string {
	return validator.Fields(e.Issues)
}
