package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter failed on a specific movie
	EvaluationError struct {
		Expression string
		MovieID    int
		MovieTitle string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid filter '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter '%s' failed on movie '%s' (ID: %d): %v", e.Expression, e.MovieTitle, e.MovieID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
