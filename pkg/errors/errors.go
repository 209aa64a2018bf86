// Package errors provides custom error types for the mergetab system.
// These errors enable programmatic error checking at the CLI boundary and
// carry the offending column names so failures are explainable.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the mergetab system
var (
	// ErrColumnNotFound indicates that a required column is absent from a table
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCardinality indicates that realized key multiplicities violate the
	// declared cardinality contract of a merge
	ErrCardinality = errors.New("cardinality violation")

	// ErrNoProvenance indicates an audit over a merge result that does not
	// carry a provenance column
	ErrNoProvenance = errors.New("no provenance column")
)

// MissingColumnError reports join or dedup key columns absent from a table.
type MissingColumnError struct {
	Table   string // which table was inspected, e.g. "left", "right"
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("columns missing from %s table: %s", e.Table, strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("columns missing: %s", strings.Join(e.Columns, ", "))
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// NewMissingColumnError creates a new MissingColumnError
func NewMissingColumnError(table string, columns []string) *MissingColumnError {
	return &MissingColumnError{Table: table, Columns: columns}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// CardinalityError reports a merge whose realized key multiplicities violate
// the declared cardinality contract.
type CardinalityError struct {
	Expected string // declared cardinality token, e.g. "one_to_one"
	Side     string // side on which the violation occurred, "left" or "right"
	Key      string // offending key tuple rendered for the message
	Count    int    // how many times the key appeared
}

// Error implements the error interface
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("merge cardinality %s violated: key %q appears %d times on %s side", e.Expected, e.Key, e.Count, e.Side)
}

// Is implements errors.Is support
func (e *CardinalityError) Is(target error) bool {
	return target == ErrCardinality
}

// NewCardinalityError creates a new CardinalityError
func NewCardinalityError(expected, side, key string, count int) *CardinalityError {
	return &CardinalityError{Expected: expected, Side: side, Key: key, Count: count}
}

// CastError reports a failed column type coercion. Casts are column-level:
// the first failing cell aborts the cast.
type CastError struct {
	Column string
	DType  string
	Row    int
	Err    error
}

// Error implements the error interface
func (e *CastError) Error() string {
	return fmt.Sprintf("could not cast column %q to %s at row %d: %v", e.Column, e.DType, e.Row, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CastError) Unwrap() error {
	return e.Err
}

// NewCastError creates a new CastError
func NewCastError(column, dtype string, row int, err error) *CastError {
	return &CastError{Column: column, DType: dtype, Row: row, Err: err}
}

// IOError represents an error during file I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "create"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ConfigError represents a configuration error raised before any table work
// begins.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsColumnNotFound checks if an error is a missing-column error
func IsColumnNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCardinalityError checks if an error is a cardinality violation
func IsCardinalityError(err error) bool {
	return errors.Is(err, ErrCardinality)
}
