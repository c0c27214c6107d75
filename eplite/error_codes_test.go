package eplite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredErrorFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"remote invalid key", &RemoteError{Code: CodeInvalidAPIKey, Message: "no or wrong API key"}, ErrInvalidAPIKey, false},
		{"remote internal", &RemoteError{Code: CodeInternalError, Message: "x"}, ErrInternal, true},
		{"remote params", &RemoteError{Code: CodeInvalidParameters, Message: "x"}, ErrInvalidParameters, false},
		{"remote method", &RemoteError{Code: CodeInvalidMethod, Message: "x"}, ErrInvalidMethod, false},
		{"protocol", &ProtocolError{Reason: ReasonMissingCode}, ErrProtocol, false},
		{"transport", &TransportError{Method: "GET", URL: "/1/x", Err: errors.New("refused")}, ErrTransport, true},
		{"timeout", &TransportError{Err: context.DeadlineExceeded}, ErrTimeout, true},
		{"config", &ConfigurationError{Reason: "API key is required"}, ErrConfig, false},
		{"other", errors.New("something"), ErrUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := StructuredErrorFromError(tt.err)
			require.NotNil(t, se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.retryable, se.Retryable)
		})
	}
}

func TestStructuredErrorCarriesMethod(t *testing.T) {
	err := &CallError{Method: "getText", Verb: "GET", Err: &RemoteError{Code: CodeInvalidParameters, Message: "padID does not exist"}}
	se := StructuredErrorFromError(err)
	assert.Equal(t, "padID does not exist", se.Message)
	assert.Equal(t, "getText", se.Context["method"])
	assert.Equal(t, 1, se.Context["status_code"])

	data, jsonErr := json.Marshal(se)
	require.NoError(t, jsonErr)
	assert.Contains(t, string(data), `"code":"invalid_parameters"`)
	assert.Contains(t, string(data), `"suggestion":"Check the argument names and values"`)
}

func TestStructuredErrorNil(t *testing.T) {
	assert.Nil(t, StructuredErrorFromError(nil))
}

func TestStructuredErrorPassthrough(t *testing.T) {
	se := NewStructuredError(ErrConfig, "bad")
	assert.Same(t, se, StructuredErrorFromError(se))
}
