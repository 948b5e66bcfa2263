package domain

// ValidationError reports a rejected write. It carries the offending
// arguments so clients can render them for correction. Validation failures
// are terminal: never retried and never published as events.
type ValidationError struct {
	Message     string
	InvalidArgs map[string]any
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the given message and
// offending arguments.
func NewValidationError(message string, invalidArgs map[string]any) *ValidationError {
	return &ValidationError{Message: message, InvalidArgs: invalidArgs}
}
