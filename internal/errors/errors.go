package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies pipeline failures so callers can branch on cause.
type ErrorType string

const (
	// ErrTypeSource covers unreachable or unparsable datasets.
	ErrTypeSource ErrorType = "SOURCE"
	// ErrTypeSchema covers a required column missing on any table at any stage.
	ErrTypeSchema ErrorType = "SCHEMA"
	// ErrTypeDataQuality covers fatal data conditions: unparseable dates during
	// enrichment, duplicate join keys on the customers side, an empty numeric
	// basis for the quantile computation.
	ErrTypeDataQuality ErrorType = "DATA_QUALITY"
	// ErrTypeStorage covers failures writing report output.
	ErrTypeStorage ErrorType = "STORAGE"
	// ErrTypeConfig covers invalid configuration.
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeValidation covers invalid API requests.
	ErrTypeValidation ErrorType = "VALIDATION"
)

// AppError is the application error type. Every stage of the pipeline either
// returns a fully valid result or an AppError; there is no partial-success
// mode anywhere.
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

// Unwrap allows errors.Is and errors.As to work with AppError.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error for diagnostics.
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
	}
}

// TypeOf returns the ErrorType of err if it is (or wraps) an AppError,
// and "" otherwise.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewSourceError creates a dataset retrieval error.
func NewSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSource, message, cause)
}

// NewSchemaError creates a schema violation error.
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewDataQualityError creates a fatal data-quality error.
func NewDataQualityError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataQuality, message, cause)
}

// NewStorageError creates a report output error.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a request validation error.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}
