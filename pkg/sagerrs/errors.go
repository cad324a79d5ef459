// Package sagerrs defines the error framework for the Sage SDK.
// Every error surfaced by the SDK carries a category, a stable code,
// and optional metadata, so callers can branch on error kind without
// string matching.
package sagerrs

import (
	"fmt"
	"maps"
)

// ErrorCategory groups errors by the layer that produced them.
type ErrorCategory string

const (
	// CategoryClient covers misuse of the client API, such as querying
	// a session that was never connected.
	CategoryClient ErrorCategory = "client"
	// CategoryTransport covers transport lifecycle failures.
	CategoryTransport ErrorCategory = "transport"
	// CategoryNetwork covers I/O failures while sending or receiving.
	CategoryNetwork ErrorCategory = "network"
	// CategoryProtocol covers records that could not be decoded.
	CategoryProtocol ErrorCategory = "protocol"
	// CategoryRemote covers error payloads reported by the peer.
	CategoryRemote ErrorCategory = "remote"
	// CategoryProcess covers subprocess lifecycle failures.
	CategoryProcess ErrorCategory = "process"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

// Client error codes.
const (
	ErrCodeNotConnected  ErrorCode = "not_connected"
	ErrCodeInvalidConfig ErrorCode = "invalid_config"
)

// Transport error codes.
const (
	ErrCodeConnectionFailed ErrorCode = "connection_failed"
	ErrCodeConnectionClosed ErrorCode = "connection_closed"
	ErrCodeCLINotFound      ErrorCode = "cli_not_found"
)

// Network error codes.
const (
	ErrCodeHTTPStatus      ErrorCode = "http_status"
	ErrCodeRequestInFlight ErrorCode = "request_in_flight"
	ErrCodeNetworkTimeout  ErrorCode = "network_timeout"
	ErrCodeIOError         ErrorCode = "io_error"
)

// Protocol error codes.
const (
	ErrCodeUnknownMessageType ErrorCode = "unknown_message_type"
	ErrCodeMessageParseFailed ErrorCode = "message_parse_failed"
	ErrCodeMissingField       ErrorCode = "missing_field"
	ErrCodeInvalidType        ErrorCode = "invalid_type"
)

// Remote error codes.
const (
	ErrCodeToolExecution ErrorCode = "tool_execution"
)

// Process error codes.
const (
	ErrCodeSpawnFailed   ErrorCode = "spawn_failed"
	ErrCodeProcessExited ErrorCode = "process_exited"
)

// SDKError is implemented by every error type in this package.
type SDKError interface {
	error
	// Code returns the stable error code.
	Code() ErrorCode
	// Category returns the error category.
	Category() ErrorCategory
	// Unwrap returns the underlying cause, if any.
	Unwrap() error
	// Metadata returns additional context attached to the error.
	Metadata() map[string]any
}

// BaseError is the shared implementation behind every SDK error.
type BaseError struct {
	code     ErrorCode
	category ErrorCategory
	message  string
	cause    error
	metadata map[string]any
}

// NewBaseError creates an error with the given category and code.
func NewBaseError(category ErrorCategory, code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		code:     code,
		category: category,
		message:  message,
		cause:    cause,
		metadata: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.category, e.message)
}

// Code returns the stable error code.
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Category returns the error category.
func (e *BaseError) Category() ErrorCategory {
	return e.category
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Metadata returns the metadata map attached to this error.
func (e *BaseError) Metadata() map[string]any {
	return e.metadata
}

// WithMetadata attaches a single metadata entry and returns the error.
func (e *BaseError) WithMetadata(key string, value any) *BaseError {
	e.metadata[key] = value

	return e
}

// WithMetadataMap attaches every entry of the given map.
func (e *BaseError) WithMetadataMap(metadata map[string]any) *BaseError {
	maps.Copy(e.metadata, metadata)

	return e
}
