package bank

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a bank id is not in the catalog.
	ErrNotFound = errors.New("question bank not found")

	// ErrUnsupportedFormat is returned for bank files with a format version
	// this build cannot read.
	ErrUnsupportedFormat = errors.New("unsupported bank format")

	// ErrDuplicateID is returned when two bank files declare the same id.
	ErrDuplicateID = errors.New("duplicate bank id")
)

// InvalidError reports a bank file that failed validation.
type InvalidError struct {
	Source string
	Err    error
}

func (e *InvalidError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid bank %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid bank: %v", e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// MismatchError reports a question whose stored digest does not match the
// digest of its authored answer.
type MismatchError struct {
	BankID   string
	Question int
	Reason   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("bank %s question %d: %s", e.BankID, e.Question+1, e.Reason)
}
