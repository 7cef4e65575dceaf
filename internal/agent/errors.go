package agent

import (
	"fmt"

	"github.com/spec-kit/overseer/internal/domain"
)

// StageErrorKind classifies a stage-scoped failure.
type StageErrorKind string

const (
	// KindMalformedOutput means the reasoning service returned a structure
	// that could not be parsed.
	KindMalformedOutput StageErrorKind = "MALFORMED_OUTPUT"
	// KindValidationFailed means the output parsed but violates a semantic
	// rule for its stage.
	KindValidationFailed StageErrorKind = "VALIDATION_FAILED"
	// KindServiceUnavailable covers transport failures and timeouts.
	KindServiceUnavailable StageErrorKind = "SERVICE_UNAVAILABLE"
)

// StageError is a typed, retryable failure from one stage attempt.
type StageError struct {
	Stage  domain.StageName
	Kind   StageErrorKind
	Field  string
	Reason string
	Err    error
}

func (e *StageError) Error() string {
	switch {
	case e.Kind == KindValidationFailed:
		return fmt.Sprintf("%s: validation failed on %s: %s", e.Stage, e.Field, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Reason)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewMalformedOutput wraps a parse failure.
func NewMalformedOutput(stage domain.StageName, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindMalformedOutput, Err: err}
}

// NewValidationFailed reports the offending field and reason.
func NewValidationFailed(stage domain.StageName, field, reason string) *StageError {
	return &StageError{Stage: stage, Kind: KindValidationFailed, Field: field, Reason: reason}
}

// NewServiceUnavailable wraps a transport or timeout failure.
func NewServiceUnavailable(stage domain.StageName, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindServiceUnavailable, Err: err}
}

// ExhaustedError is the terminal failure produced once a stage's attempt
// cap is exceeded. It ends the run; later stages never execute.
type ExhaustedError struct {
	Stage    domain.StageName
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: exhausted after %d attempts: %v", e.Stage, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
