package sagerrs

// NotConnectedError reports an operation that requires an active session
// while the client is disconnected. It covers both the not-yet-connected
// and the already-disconnected cases.
type NotConnectedError struct {
	*BaseError
}

// NewNotConnectedError creates a NotConnectedError for the named operation.
func NewNotConnectedError(op string) *NotConnectedError {
	err := &NotConnectedError{
		BaseError: NewBaseError(CategoryClient, ErrCodeNotConnected, "not connected, call Connect first", nil),
	}
	_ = err.WithMetadata("op", op)

	return err
}

// ConnectionError reports a transport-level connect or teardown failure.
type ConnectionError struct {
	*BaseError
}

// NewConnectionError creates a ConnectionError with the given code.
func NewConnectionError(code ErrorCode, message string, cause error) *ConnectionError {
	return &ConnectionError{
		BaseError: NewBaseError(CategoryTransport, code, message, cause),
	}
}

// NetworkError reports an I/O failure while sending or receiving,
// including request-in-flight violations.
type NetworkError struct {
	*BaseError
}

// NewNetworkError creates a NetworkError with the given code.
func NewNetworkError(code ErrorCode, message string, cause error) *NetworkError {
	return &NetworkError{
		BaseError: NewBaseError(CategoryNetwork, code, message, cause),
	}
}

// WithStatus attaches the HTTP status code.
func (e *NetworkError) WithStatus(status int) *NetworkError {
	_ = e.WithMetadata("status", status)

	return e
}

// WithURL attaches the request URL.
func (e *NetworkError) WithURL(url string) *NetworkError {
	_ = e.WithMetadata("url", url)

	return e
}

// DecodeError reports a received record that could not be mapped to a
// known message or event shape.
type DecodeError struct {
	*BaseError
}

// NewDecodeError creates a DecodeError with the given code.
func NewDecodeError(code ErrorCode, message string, cause error) *DecodeError {
	return &DecodeError{
		BaseError: NewBaseError(CategoryProtocol, code, message, cause),
	}
}

// WithRecord attaches the raw record that failed to decode.
func (e *DecodeError) WithRecord(record map[string]any) *DecodeError {
	_ = e.WithMetadata("record", record)

	return e
}

// WithField attaches the field that was missing or mistyped.
func (e *DecodeError) WithField(field string) *DecodeError {
	_ = e.WithMetadata("field", field)

	return e
}

// RemoteToolError reports an application-level error payload returned by
// the peer: a numeric code, a message, and an optional hint.
type RemoteToolError struct {
	*BaseError
	remoteCode int
	hint       string
}

// NewRemoteToolError creates a RemoteToolError from a peer error payload.
func NewRemoteToolError(message string, remoteCode int, hint string) *RemoteToolError {
	err := &RemoteToolError{
		BaseError:  NewBaseError(CategoryRemote, ErrCodeToolExecution, message, nil),
		remoteCode: remoteCode,
		hint:       hint,
	}
	_ = err.WithMetadata("remote_code", remoteCode)
	if hint != "" {
		_ = err.WithMetadata("hint", hint)
	}

	return err
}

// RemoteCode returns the peer's numeric error code.
func (e *RemoteToolError) RemoteCode() int {
	return e.remoteCode
}

// Hint returns the peer's recovery hint, if any.
func (e *RemoteToolError) Hint() string {
	return e.hint
}

// ProcessError reports a subprocess lifecycle failure.
type ProcessError struct {
	*BaseError
	exitCode int
	stderr   string
}

// NewProcessError creates a ProcessError carrying exit status and stderr.
func NewProcessError(code ErrorCode, message string, cause error, exitCode int, stderr string) *ProcessError {
	err := &ProcessError{
		BaseError: NewBaseError(CategoryProcess, code, message, cause),
		exitCode:  exitCode,
		stderr:    stderr,
	}
	_ = err.WithMetadata("exit_code", exitCode)
	if stderr != "" {
		_ = err.WithMetadata("stderr", stderr)
	}

	return err
}

// ExitCode returns the subprocess exit code.
func (e *ProcessError) ExitCode() int {
	return e.exitCode
}

// Stderr returns captured stderr output.
func (e *ProcessError) Stderr() string {
	return e.stderr
}
