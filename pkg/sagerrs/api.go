package sagerrs

import "errors"

// AsSDKError extracts an SDKError from the error chain.
func AsSDKError(err error) (SDKError, bool) {
	var sdkErr SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr, true
	}

	return nil, false
}

// IsNotConnectedError reports whether err is a NotConnectedError.
func IsNotConnectedError(err error) bool {
	var target *NotConnectedError

	return errors.As(err, &target)
}

// IsConnectionError reports whether err is a ConnectionError.
func IsConnectionError(err error) bool {
	var target *ConnectionError

	return errors.As(err, &target)
}

// IsConnectionClosed reports whether err marks a peer-closed connection,
// which the session treats as a clean end-of-stream.
func IsConnectionClosed(err error) bool {
	if sdkErr, ok := AsSDKError(err); ok {
		return sdkErr.Code() == ErrCodeConnectionClosed
	}

	return false
}

// IsNetworkError reports whether err is a NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError

	return errors.As(err, &target)
}

// IsRequestInFlight reports whether err marks a second request sent while
// one was still outstanding.
func IsRequestInFlight(err error) bool {
	if sdkErr, ok := AsSDKError(err); ok {
		return sdkErr.Code() == ErrCodeRequestInFlight
	}

	return false
}

// IsDecodeError reports whether err is a DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError

	return errors.As(err, &target)
}

// IsRemoteToolError reports whether err is a RemoteToolError.
func IsRemoteToolError(err error) bool {
	var target *RemoteToolError

	return errors.As(err, &target)
}

// AsRemoteToolError extracts a RemoteToolError from the error chain.
func AsRemoteToolError(err error) (*RemoteToolError, bool) {
	var target *RemoteToolError
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}

// IsProcessError reports whether err is a ProcessError.
func IsProcessError(err error) bool {
	var target *ProcessError

	return errors.As(err, &target)
}
