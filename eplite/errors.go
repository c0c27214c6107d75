package eplite

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ConfigurationError reports an invalid client-side setup: a bad base URL,
// a missing API key, an empty method name or an unsupported HTTP verb.
// It is always raised before any network activity.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// TransportError reports that the HTTP exchange could not be completed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the exchange failed because a deadline passed.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Protocol error reasons.
const (
	ReasonMalformedResponse = "malformed response"
	ReasonMissingCode       = "missing status code"
	ReasonInvalidCode       = "invalid status code"
	ReasonUnrecognizedCode  = "unrecognized status code"
	ReasonInvalidData       = "data is not an object"
)

// ProtocolError reports a response body that does not match the
// {code, message, data} envelope.
type ProtocolError struct {
	Reason string
	// Code is set when Reason is ReasonUnrecognizedCode.
	Code StatusCode
	Err  error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Reason == ReasonUnrecognizedCode:
		return fmt.Sprintf("protocol error: %s %d", e.Reason, int(e.Code))
	case e.Err != nil:
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("protocol error: %s", e.Reason)
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RemoteError is a failure reported by the service itself through a
// non-OK status code. Message is the service's message, verbatim.
type RemoteError struct {
	Code    StatusCode
	Message string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	return fmt.Sprintf("remote error (%s): %s", e.Code, msg)
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsProtocolError checks if the error is a protocol error.
func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}

// IsRemoteError checks if the error is a remote error.
func IsRemoteError(err error) bool {
	var e *RemoteError
	return errors.As(err, &e)
}

// RemoteCode returns the status code of a RemoteError in err's chain.
func RemoteCode(err error) (StatusCode, bool) {
	var e *RemoteError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
