package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInProgress is returned by operations that need an active quiz.
	ErrNotInProgress = errors.New("quiz is not in progress")

	// ErrUnknownChoice is returned when a selection is not one of the
	// current question's choices.
	ErrUnknownChoice = errors.New("choice is not offered for this question")

	// ErrDigestUnavailable is returned when a question has no answer digest.
	ErrDigestUnavailable = errors.New("answer digest unavailable")

	// ErrEmptyBank is returned when a session is built from a bank with no
	// questions.
	ErrEmptyBank = errors.New("question bank has no questions")

	// ErrAlgorithmMismatch is returned when the bank was digested with a
	// different algorithm than the session's digester.
	ErrAlgorithmMismatch = errors.New("digest algorithm mismatch")
)

// ValidationError reports invalid learner input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
