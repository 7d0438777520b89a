// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeMalformedFormula indicates the tokenizer could not match at some position
	TypeMalformedFormula Type = "MALFORMED_FORMULA"

	// TypeUnexpectedToken indicates a token that cannot start or continue an expression
	TypeUnexpectedToken Type = "UNEXPECTED_TOKEN"

	// TypeUnbalancedParens indicates a missing close paren
	TypeUnbalancedParens Type = "UNBALANCED_PARENS"

	// TypeUnknownIdentifier indicates an identifier that is neither a function nor a name
	TypeUnknownIdentifier Type = "UNKNOWN_IDENTIFIER"

	// TypeUnparseableQuantity indicates free text with no recognisable quantity
	TypeUnparseableQuantity Type = "UNPARSEABLE_QUANTITY"

	// TypeUnknownUnit indicates a label with no unit or no conversions
	TypeUnknownUnit Type = "UNKNOWN_UNIT"

	// TypeLabelCollision indicates a label registered for two units
	TypeLabelCollision Type = "LABEL_COLLISION"

	// TypeTable indicates a bad conversion table
	TypeTable Type = "TABLE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, is of type t
func IsType(err error, t Type) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Type == t {
			return true
		}
		err = e.Cause
	}
	return false
}

// TypeOf returns the type of the outermost domain error in err's chain
func TypeOf(err error) (Type, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

// NotFound creates an unknown unit error
func NotFound(label string) *Error {
	return Newf(TypeUnknownUnit, "unit not found: %s", label)
}

// Table creates a table error
func Table(message string, cause error) *Error {
	return Wrap(TypeTable, message, cause)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}
