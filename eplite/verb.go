package eplite

import (
	"fmt"
	"net/http"
	"strings"
)

// Verb is the HTTP method used to invoke a remote procedure.
// Reads use GET, writes use POST; no other verb exists on the wire.
type Verb int

const (
	GET Verb = iota
	POST
)

// ParseVerb converts a dynamic verb string into a Verb.
// Anything other than GET or POST (case-insensitive) is a *ConfigurationError.
func ParseVerb(s string) (Verb, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case http.MethodGet:
		return GET, nil
	case http.MethodPost:
		return POST, nil
	default:
		return 0, &ConfigurationError{Reason: fmt.Sprintf("%q is not a valid HTTP method (use GET or POST)", s)}
	}
}

// Valid reports whether v is one of the two supported verbs.
func (v Verb) Valid() bool {
	return v == GET || v == POST
}

func (v Verb) String() string {
	switch v {
	case GET:
		return http.MethodGet
	case POST:
		return http.MethodPost
	default:
		return fmt.Sprintf("Verb(%d)", int(v))
	}
}
