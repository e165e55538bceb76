package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies pipeline failures. Only a subset is fatal to a run:
// malformed cells and unparseable period headers are absorbed by the
// normalizer and period parser and never become errors.
type ErrorType string

const (
	// ErrTypeMissingSource means the input file or sheet is absent. Fatal.
	ErrTypeMissingSource ErrorType = "MISSING_SOURCE"
	// ErrTypeNetwork covers Sheets/Drive fetch failures. Fatal.
	ErrTypeNetwork ErrorType = "NETWORK"
	// ErrTypeParsing covers structural input problems (empty grid, no
	// usable rows), not individual cells.
	ErrTypeParsing ErrorType = "PARSING"
	// ErrTypePrecondition is a stage called out of order, reported to the
	// caller as a usage error and never retried.
	ErrTypePrecondition ErrorType = "PRECONDITION"
	// ErrTypeStorage covers export I/O failures.
	ErrTypeStorage ErrorType = "STORAGE"
	// ErrTypeConfig covers configuration load/validation failures.
	ErrTypeConfig ErrorType = "CONFIG"
)

// AppError is the application error carrying a type, a message, an optional
// cause and free-form context for logging.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error.
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewMissingSourceError creates a missing input error.
func NewMissingSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMissingSource, message, cause)
}

// NewNetworkError creates a network-related error.
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewParsingError creates a structural parsing error.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewPreconditionError creates a stage-precondition error.
func NewPreconditionError(message string) *AppError {
	return NewAppError(ErrTypePrecondition, message, nil)
}

// NewStorageError creates an export/storage error.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
