// Package apperrors gives every error that crosses a component boundary a
// stable type, so the CLI layer can decide what to report without matching
// on error strings.
package apperrors

import (
	"fmt"
	"time"
)

// ErrorType classifies where an error originated.
type ErrorType string

const (
	ErrorTypeParse ErrorType = "parse"
	ErrorTypeScan  ErrorType = "scan"
	ErrorTypeStore ErrorType = "store"
	ErrorTypeConfig ErrorType = "config"
)

// EngineError is the error type returned by the Store and the config
// loader. It always carries an Operation name and, when known, the file
// path or content hash that was being processed.
type EngineError struct {
	Type       ErrorType
	Operation  string
	Path       string
	Hash       string
	Underlying error
	Timestamp  time.Time
}

// New creates an EngineError with no path/hash context.
func New(t ErrorType, op string, err error) *EngineError {
	return &EngineError{
		Type:       t,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPath attaches the file path under consideration.
func (e *EngineError) WithPath(path string) *EngineError {
	e.Path = path
	return e
}

// WithHash attaches the content hash under consideration.
func (e *EngineError) WithHash(hash string) *EngineError {
	e.Hash = hash
	return e
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	case e.Hash != "":
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Hash, e.Underlying)
	default:
		return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

