package errors

import (
	"fmt"
)

// AgoraError is the structured error type for Agora.
// It provides rich context for error handling, logging, and user presentation.
type AgoraError struct {
	// Code is the unique error code (e.g., "ERR_203_MALFORMED_TOPIC").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Load, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs
	// (offending file, id, allowed range).
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *AgoraError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *AgoraError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with AgoraError.
func (e *AgoraError) Is(target error) bool {
	if t, ok := target.(*AgoraError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *AgoraError) WithDetail(key, value string) *AgoraError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *AgoraError) WithSuggestion(suggestion string) *AgoraError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AgoraError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *AgoraError {
	return &AgoraError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an AgoraError from an existing error.
// The error's message becomes the AgoraError message.
func Wrap(code string, err error) *AgoraError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *AgoraError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// MalformedCategory creates a load error for an unparseable or incomplete
// category descriptor, naming the offending file.
func MalformedCategory(file string, cause error) *AgoraError {
	return New(ErrCodeMalformedCategory,
		fmt.Sprintf("malformed category descriptor: %s", file), cause).
		WithDetail("file", file)
}

// MalformedTopic creates a load error for an unparseable or incomplete
// topic file, naming the offending file.
func MalformedTopic(file string, cause error) *AgoraError {
	return New(ErrCodeMalformedTopic,
		fmt.Sprintf("malformed topic file: %s", file), cause).
		WithDetail("file", file)
}

// DanglingReference creates a load error for an unresolved parent_cid or
// category_id reference.
func DanglingReference(kind string, from, to int64) *AgoraError {
	return New(ErrCodeDanglingReference,
		fmt.Sprintf("%s %d references unknown category %d", kind, from, to), nil).
		WithDetail("kind", kind).
		WithDetail("id", fmt.Sprintf("%d", from)).
		WithDetail("referenced_id", fmt.Sprintf("%d", to))
}

// DuplicateID creates a load error for an id claimed by more than one file.
func DuplicateID(kind string, id int64, file string) *AgoraError {
	return New(ErrCodeDuplicateID,
		fmt.Sprintf("duplicate %s id %d in %s", kind, id, file), nil).
		WithDetail("kind", kind).
		WithDetail("id", fmt.Sprintf("%d", id)).
		WithDetail("file", file)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *AgoraError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *AgoraError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort startup; the store is never published.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ae, ok := err.(*AgoraError); ok {
		return ae.Severity == SeverityFatal
	}
	return false
}

// IsValidation checks if an error is caller-correctable input validation.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	if ae, ok := err.(*AgoraError); ok {
		return ae.Category == CategoryValidation
	}
	return false
}

// GetCode returns the error code, or ERR_501_INTERNAL for plain errors.
func GetCode(err error) string {
	if ae, ok := err.(*AgoraError); ok {
		return ae.Code
	}
	return ErrCodeInternal
}

// GetCategory returns the error category, or CategoryInternal for plain errors.
func GetCategory(err error) Category {
	if ae, ok := err.(*AgoraError); ok {
		return ae.Category
	}
	return CategoryInternal
}
