package eplite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// StatusCode is the "code" field of every API reply. The set is fixed by
// the server; values outside it are reported as protocol errors.
type StatusCode int

const (
	CodeOK                StatusCode = 0
	CodeInvalidParameters StatusCode = 1
	CodeInternalError     StatusCode = 2
	CodeInvalidMethod     StatusCode = 3
	CodeInvalidAPIKey     StatusCode = 4
)

// Known reports whether c belongs to the protocol's enumeration.
func (c StatusCode) Known() bool {
	return c >= CodeOK && c <= CodeInvalidAPIKey
}

func (c StatusCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidParameters:
		return "invalid parameters"
	case CodeInternalError:
		return "internal error"
	case CodeInvalidMethod:
		return "invalid method"
	case CodeInvalidAPIKey:
		return "invalid API key"
	default:
		return fmt.Sprintf("unknown (%d)", int(c))
	}
}

// Payload is the data of a successful reply, keyed by field name.
// Numbers decode as json.Number so large integers keep every digit.
type Payload map[string]any

// MalformedPolicy selects what happens when a reply is not valid JSON.
type MalformedPolicy int

const (
	// MalformedStrict reports a *ProtocolError.
	MalformedStrict MalformedPolicy = iota
	// MalformedLenient logs a warning and yields an empty payload.
	MalformedLenient
)

func (p MalformedPolicy) String() string {
	if p == MalformedLenient {
		return "lenient"
	}
	return "strict"
}

// Envelope is the wire shape of every reply.
type Envelope struct {
	Code    StatusCode `json:"code"`
	Message *string    `json:"message,omitempty"`
	Data    Payload    `json:"data"`
}

// EncodeEnvelope renders a reply body. An empty message is omitted and a
// nil data map is sent as null.
func EncodeEnvelope(code StatusCode, message string, data Payload) ([]byte, error) {
	env := Envelope{Code: code, Data: data}
	if message != "" {
		env.Message = &message
	}
	return json.Marshal(env)
}

// Decode classifies a raw reply body. On CodeOK it returns the data
// object, or an empty Payload when the reply carries none.
func Decode(body []byte, policy MalformedPolicy) (Payload, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(body, &fields)
	if err == nil && fields == nil {
		err = fmt.Errorf("reply is null")
	}
	if err != nil {
		if policy == MalformedLenient {
			slog.Warn("ignoring malformed API response", "error", err, "bytes", len(body))
			return Payload{}, nil
		}
		return nil, &ProtocolError{Reason: ReasonMalformedResponse, Err: err}
	}

	rawCode, ok := fields["code"]
	if !ok || isNull(rawCode) {
		return nil, &ProtocolError{Reason: ReasonMissingCode}
	}
	var code int
	if err := json.Unmarshal(rawCode, &code); err != nil {
		return nil, &ProtocolError{Reason: ReasonInvalidCode, Err: err}
	}

	switch status := StatusCode(code); {
	case status == CodeOK:
		return decodeData(fields["data"])
	case status.Known():
		return nil, &RemoteError{Code: status, Message: decodeMessage(fields["message"])}
	default:
		return nil, &ProtocolError{Reason: ReasonUnrecognizedCode, Code: status}
	}
}

func decodeData(raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || isNull(raw) {
		return Payload{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data Payload
	if err := dec.Decode(&data); err != nil {
		return nil, &ProtocolError{Reason: ReasonInvalidData, Err: err}
	}
	return data, nil
}

// decodeMessage returns the message verbatim, or "" when it is absent or
// not a string.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	return msg
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
