package core

import (
	"errors"
	"fmt"
)

// Sentinel errors. Their text carries the phrases matched by MapError.
var (
	ErrJobInProgress            = errors.New("job already in progress")
	ErrNoResult                 = errors.New("result not available")
	ErrMissingDescriptionColumn = errors.New("missing description column")
	ErrMissingConfigColumns     = errors.New("missing configuration columns")
	ErrInvalidJob               = errors.New("invalid job: load function is required")
)

// FailureKind identifies why a job ended in the failed state.
type FailureKind string

const (
	FailureInputParse           FailureKind = "input_parse"
	FailureMissingDescription   FailureKind = "missing_description_column"
	FailureMissingConfigColumns FailureKind = "missing_config_columns"
	FailureExtraction           FailureKind = "extraction"
)

// Failure is the terminal error of a job. The wrapped error is kept for
// logging; users see the fixed message of the kind.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage returns the fixed user-facing message for the failure kind.
func (f *Failure) UserMessage() UserMessage {
	if msg, ok := failureMessages[f.Kind]; ok {
		return msg
	}
	return defaultMessage
}

// classify maps an error from the extraction stages to a failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrMissingDescriptionColumn):
		return FailureMissingDescription
	case errors.Is(err, ErrMissingConfigColumns):
		return FailureMissingConfigColumns
	default:
		return FailureExtraction
	}
}
