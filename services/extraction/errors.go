package extraction

import "fmt"

// ExtractionError signals that no email-like and no date-like token could be
// found after both the structured pass and the LLM fallback. It resolves to
// a human-review decision downstream, never to a crash.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractionError: %s", e.Message)
}

func NewExtractionError(msg string) error {
	return &ExtractionError{Message: msg}
}
