package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names used when tagging failures, so a caller can decide whether a
// manual retry makes sense.
const (
	StageIngest    = "ingest"
	StageAnalysis  = "analysis"
	StageMatching  = "matching"
	StageCustomize = "customize"
	StageGenerate  = "generate"
	StageTracking  = "tracking"
)

var (
	// ErrNotFound means a referenced job, analysis, score or application is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidationFailed means oracle output or a customized profile failed a
	// structural check. Always recoverable by falling back to original data.
	ErrValidationFailed = errors.New("validation failed")
	// ErrUnavailable means the external oracle could not be reached.
	ErrUnavailable = errors.New("oracle unavailable")
	// ErrTimeout means the oracle call exceeded its bound. Kept distinct from
	// ErrUnavailable so the two show up separately in logs and metrics.
	ErrTimeout = errors.New("oracle timeout")
	// ErrInvalidInput means the caller supplied a malformed status or value.
	ErrInvalidInput = errors.New("invalid input")
)

// StageError tags a failure with the pipeline stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Fail wraps err with a stage tag and an explanatory reason.
func Fail(stage string, err error, reason string) error {
	return &StageError{Stage: stage, Err: errors.Wrap(err, reason)}
}

// Failf is Fail with formatting.
func Failf(stage string, err error, format string, args ...any) error {
	return &StageError{Stage: stage, Err: errors.Wrapf(err, format, args...)}
}
