package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
)

// ScanError is the structured error type for wordscan.
// It carries enough context for logging, CLI presentation and exit handling.
type ScanError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Is matches another ScanError by code, so errors.Is works against sentinels
// built with New.
func (e *ScanError) Is(target error) bool {
	if t, ok := target.(*ScanError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *ScanError) WithDetail(key, value string) *ScanError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *ScanError) WithSuggestion(suggestion string) *ScanError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ScanError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *ScanError {
	return &ScanError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a ScanError from an existing error, reusing its message.
func Wrap(code string, err error) *ScanError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ScanError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// NetworkError classifies a failed fetch: timeouts get ERR_301, anything
// else ERR_302. Both are retryable.
func NetworkError(message string, cause error) *ScanError {
	code := ErrCodeNetworkUnavailable
	var ne net.Error
	if stderrors.Is(cause, context.DeadlineExceeded) || (stderrors.As(cause, &ne) && ne.Timeout()) {
		code = ErrCodeNetworkTimeout
	}
	return New(code, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ScanError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ScanError {
	return New(ErrCodeInternal, message, cause)
}

// BatchError reports a batch invocation that failed as a whole.
func BatchError(batch int, cause error) *ScanError {
	return New(ErrCodeBatchFailed, fmt.Sprintf("batch %d failed: %v", batch, cause), cause).
		WithDetail("batch", fmt.Sprint(batch))
}

// FileError classifies a per-file read failure by its cause.
func FileError(path string, cause error) *ScanError {
	code := ErrCodeInternal
	switch {
	case stderrors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
	case stderrors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	case IsDecodeError(cause):
		code = ErrCodeFileCorrupt
	}
	return New(code, fmt.Sprintf("cannot read %s: %v", path, cause), cause).WithDetail("path", path)
}

// as is errors.As specialised to *ScanError.
func as(err error) (*ScanError, bool) {
	var se *ScanError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if se, ok := as(err); ok {
		return se.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if se, ok := as(err); ok {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a ScanError.
// Returns empty string if err is not a ScanError.
func GetCode(err error) string {
	if se, ok := as(err); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a ScanError.
func GetCategory(err error) Category {
	if se, ok := as(err); ok {
		return se.Category
	}
	return ""
}
