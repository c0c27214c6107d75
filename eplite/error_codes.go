package eplite

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents machine-readable error codes for scripted callers.
type ErrorCode string

const (
	// ErrConfig indicates an invalid client setup or call (bad URL, key or verb).
	ErrConfig ErrorCode = "config_error"
	// ErrTransport indicates the HTTP exchange could not be completed.
	ErrTransport ErrorCode = "transport_error"
	// ErrTimeout indicates the exchange timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrProtocol indicates a reply that does not follow the API envelope.
	ErrProtocol ErrorCode = "protocol_error"
	// ErrInvalidParameters mirrors status code 1.
	ErrInvalidParameters ErrorCode = "invalid_parameters"
	// ErrInternal mirrors status code 2.
	ErrInternal ErrorCode = "internal_error"
	// ErrInvalidMethod mirrors status code 3.
	ErrInvalidMethod ErrorCode = "invalid_method"
	// ErrInvalidAPIKey mirrors status code 4.
	ErrInvalidAPIKey ErrorCode = "invalid_api_key"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrTransport, ErrTimeout, ErrInternal:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrConfig:
		return "Check the instance URL, API key and HTTP method"
	case ErrTransport:
		return "Check that the Etherpad instance is reachable"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	case ErrProtocol:
		return "The server did not answer with the Etherpad API format; check the base URL"
	case ErrInvalidParameters:
		return "Check the argument names and values"
	case ErrInternal:
		return "The server encountered an error; try again later"
	case ErrInvalidMethod:
		return "Check the API method name"
	case ErrInvalidAPIKey:
		return "Check the API key (APIKEY.txt on the server)"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an API status code to an ErrorCode.
func ErrorCodeFromStatus(code StatusCode) ErrorCode {
	switch code {
	case CodeInvalidParameters:
		return ErrInvalidParameters
	case CodeInternalError:
		return ErrInternal
	case CodeInvalidMethod:
		return ErrInvalidMethod
	case CodeInvalidAPIKey:
		return ErrInvalidAPIKey
	default:
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var structured *StructuredError
	var remoteErr *RemoteError
	var protoErr *ProtocolError
	var transportErr *TransportError
	var configErr *ConfigurationError

	switch {
	case errors.As(err, &remoteErr):
		structured = NewStructuredError(ErrorCodeFromStatus(remoteErr.Code), remoteErr.Message)
		structured.Context = map[string]any{"status_code": int(remoteErr.Code)}
	case errors.As(err, &protoErr):
		structured = NewStructuredError(ErrProtocol, protoErr.Error())
		structured.Context = map[string]any{"reason": protoErr.Reason}
	case errors.As(err, &transportErr):
		code := ErrTransport
		if transportErr.Timeout() {
			code = ErrTimeout
		}
		structured = NewStructuredError(code, transportErr.Error())
	case errors.As(err, &configErr):
		structured = NewStructuredError(ErrConfig, configErr.Reason)
	default:
		return NewStructuredError(ErrUnknown, err.Error())
	}

	var callErr *CallError
	if errors.As(err, &callErr) {
		if structured.Context == nil {
			structured.Context = map[string]any{}
		}
		structured.Context["method"] = callErr.Method
	}
	return structured
}
