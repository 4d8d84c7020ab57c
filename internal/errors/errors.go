// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoNews            = errors.New("no news items to analyze")
	ErrEmbeddingFailed   = errors.New("embedding model call failed")
	ErrEmptyEmbedding    = errors.New("embedding model returned no vectors")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNoClusters        = errors.New("no clusters detected")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrInputValidation   = errors.New("input validation failed")
)

// EmbeddingError represents an error from the embedding model call.
type EmbeddingError struct {
	Model string
	Batch int
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding error [%s] batch of %d: %v", e.Model, e.Batch, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// NewEmbeddingError creates a new EmbeddingError.
func NewEmbeddingError(model string, batch int, err error) *EmbeddingError {
	return &EmbeddingError{
		Model: model,
		Batch: batch,
		Err:   err,
	}
}

// StageError represents a failure inside one pipeline stage. The pipeline
// records it in run statistics instead of propagating it to the scheduler.
type StageError struct {
	Stage string // embedding, clustering, summary, decision
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage error [%s]: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}

// DecisionError represents a per-event failure inside the decision pipeline.
type DecisionError struct {
	EventID string
	Step    string // importance, signal, action
	Err     error
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("decision error [%s] %s: %v", e.EventID, e.Step, e.Err)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}

// NewDecisionError creates a new DecisionError.
func NewDecisionError(eventID, step string, err error) *DecisionError {
	return &DecisionError{
		EventID: eventID,
		Step:    step,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
