package grading

import (
	"errors"
	"fmt"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

var (
	// ErrUnknownVariant: the identifier is not registered.
	ErrUnknownVariant = variant.ErrUnknownVariant
	// ErrInvalidSubmission: the answer set (or its envelope) is malformed.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// Reason is a machine-readable code carried by SubmissionError.
type Reason string

const (
	ReasonAnswerCount   Reason = "answer_count"
	ReasonShapeMismatch Reason = "shape_mismatch"
	ReasonMissingField  Reason = "missing_field"
	ReasonMalformed     Reason = "malformed"
)

// SubmissionError is an InvalidSubmission with its reason code.
type SubmissionError struct {
	Reason Reason
	Detail string
}

func (e *SubmissionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (%s)", ErrInvalidSubmission, e.Reason)
	}
	return fmt.Sprintf("%s (%s): %s", ErrInvalidSubmission, e.Reason, e.Detail)
}

func (e *SubmissionError) Is(target error) bool { return target == ErrInvalidSubmission }

// Invalid builds a SubmissionError; callers outside the engine use it for
// envelope checks such as missing submitter fields.
func Invalid(reason Reason, format string, args ...any) error {
	return &SubmissionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
