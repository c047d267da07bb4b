package engagement

import "fmt"

// ValidationError reports a missing or malformed field on an incoming event.
// An empty Reason means the field was missing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}
