package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Process errors
	ErrBinaryNotFound = errors.New("binary not found")
	ErrTimeout        = errors.New("process timed out")

	// Input errors, raised before any subprocess is spawned
	ErrValidation   = errors.New("invalid input")
	ErrInvalidURL   = errors.New("invalid YouTube URL")
	ErrInvalidRange = errors.New("invalid time range")

	// Output errors: the tool ran but its output is unintelligible
	ErrParse           = errors.New("unparsable tool output")
	ErrInvalidFraction = errors.New("invalid fraction string")
)

// ProcessLaunchError reports a binary that could not be found or started.
type ProcessLaunchError struct {
	Binary string
	Err    error
}

func (e *ProcessLaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Binary, e.Err)
}

func (e *ProcessLaunchError) Unwrap() error { return e.Err }

// ProcessExitError reports a child process that exited with a non-zero code.
type ProcessExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ProcessExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Binary, e.ExitCode, e.Stderr)
}

// TimeoutError reports a child process killed after its deadline expired.
type TimeoutError struct {
	Binary  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Binary, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ParseError reports tool output missing an expected field or shape.
type ParseError struct {
	Tool  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s output: %s", e.Tool, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidFractionError reports a rational string that is not "<num>/<den>"
// with a non-zero denominator.
type InvalidFractionError struct {
	Input string
}

func (e *InvalidFractionError) Error() string {
	return fmt.Sprintf("invalid fraction string %q", e.Input)
}

func (e *InvalidFractionError) Is(target error) bool { return target == ErrInvalidFraction }

// ValidationError reports a caller mistake detected before spawning a process.
// Err narrows the category (ErrInvalidURL, ErrInvalidRange) when set.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, reason string, category error) error {
	return &ValidationError{Field: field, Reason: reason, Err: category}
}

// Invalid builds a ValidationError with no narrower category.
func Invalid(field, reason string) error {
	return invalid(field, reason, nil)
}
