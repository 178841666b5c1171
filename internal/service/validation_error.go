package service

import "strings"

// ValidationError carries every field-level problem found in a payload,
// collected before returning so the client sees all of them at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func validationResult(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
