package eplite

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Typed views over a Payload. The core never looks inside a Payload; these
// are conveniences for callers that know a procedure's result shape.

// GroupRef is the result of createGroup and createGroupIfNotExistsFor.
type GroupRef struct {
	GroupID string `json:"groupID"`
}

// AuthorRef is the result of createAuthor and createAuthorIfNotExistsFor.
type AuthorRef struct {
	AuthorID string `json:"authorID"`
}

// SessionRef is the result of createSession.
type SessionRef struct {
	SessionID string `json:"sessionID"`
}

// SessionInfo is the result of getSessionInfo and one entry of the
// session listings.
type SessionInfo struct {
	GroupID    string `json:"groupID"`
	AuthorID   string `json:"authorID"`
	ValidUntil int64  `json:"validUntil"`
}

// Expires returns ValidUntil as a time.
func (s SessionInfo) Expires() time.Time {
	return time.Unix(s.ValidUntil, 0)
}

// PadList is the result of listPads and listPadsOfAuthor.
type PadList struct {
	PadIDs []string `json:"padIDs"`
}

// AuthorList is the result of listAuthorsOfPad.
type AuthorList struct {
	AuthorIDs []string `json:"authorIDs"`
}

// PadText is the result of getText.
type PadText struct {
	Text string `json:"text"`
}

// PadHTML is the result of getHTML.
type PadHTML struct {
	HTML string `json:"html"`
}

// RevisionCount is the result of getRevisionsCount.
type RevisionCount struct {
	Revisions int `json:"revisions"`
}

// ReadOnlyRef is the result of getReadOnlyID.
type ReadOnlyRef struct {
	ReadOnlyID string `json:"readOnlyID"`
}

// PublicStatus is the result of getPublicStatus.
type PublicStatus struct {
	PublicStatus bool `json:"publicStatus"`
}

// PasswordProtection is the result of isPasswordProtected.
type PasswordProtection struct {
	IsPasswordProtected bool `json:"isPasswordProtected"`
}

// Decode copies the payload into out, a pointer to a struct or map,
// matching fields by their json tag. Numbers and strings are converted
// loosely ("5" into an int, 1 into a bool).
func (p Payload) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// Sessions decodes a payload keyed by session ID, as returned by
// listSessionsOfGroup and listSessionsOfAuthor. Null entries are skipped.
func (p Payload) Sessions() (map[string]SessionInfo, error) {
	sessions := make(map[string]SessionInfo, len(p))
	for id, raw := range p {
		if raw == nil {
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("session %s: expected an object, got %T", id, raw)
		}
		var info SessionInfo
		if err := Payload(fields).Decode(&info); err != nil {
			return nil, fmt.Errorf("session %s: %w", id, err)
		}
		sessions[id] = info
	}
	return sessions, nil
}

// String returns the string stored under key.
func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// maxExactFloat is the largest magnitude below which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

// Int returns the integral number stored under key. Floats beyond the
// exact integer range are rejected rather than rounded.
func (p Payload) Int(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > maxExactFloat {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// Bool returns the boolean stored under key.
func (p Payload) Bool(key string) (bool, bool) {
	b, ok := p[key].(bool)
	return b, ok
}
