package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for search and indexing operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeEmbeddingFailed indicates the embedding provider failed or timed out.
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"
	// ErrCodeIndexUnavailable indicates the vector index query failed.
	ErrCodeIndexUnavailable ErrorCode = "INDEX_UNAVAILABLE"
	// ErrCodeHydrationFailed indicates candidate hydration failed entirely.
	ErrCodeHydrationFailed ErrorCode = "HYDRATION_FAILED"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected failure with no finer code.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// SearchError represents a structured error for search and indexing operations.
type SearchError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *SearchError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *SearchError {
	return &SearchError{Code: ErrCodeUnauthorized, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *SearchError {
	return &SearchError{Code: ErrCodeInvalidArgument, Message: msg}
}

// EmbeddingFailed creates an embedding failure error.
func EmbeddingFailed(cause error) *SearchError {
	return &SearchError{Code: ErrCodeEmbeddingFailed, Message: "embedding provider failed", Cause: cause}
}

// IndexUnavailable creates a vector index failure error.
func IndexUnavailable(cause error) *SearchError {
	return &SearchError{Code: ErrCodeIndexUnavailable, Message: "vector index query failed", Cause: cause}
}

// HydrationFailed creates a hydration failure error.
func HydrationFailed(cause error) *SearchError {
	return &SearchError{Code: ErrCodeHydrationFailed, Message: "candidate hydration failed", Cause: cause}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *SearchError {
	return &SearchError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *SearchError {
	return &SearchError{Code: ErrCodeNotFound, Message: msg}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *SearchError {
	return &SearchError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *SearchError {
	return &SearchError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *SearchError {
	return &SearchError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if serr, ok := err.(*SearchError); ok {
		return serr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a SearchError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if serr, ok := err.(*SearchError); ok {
		return serr.Code
	}
	return defaultCode
}
