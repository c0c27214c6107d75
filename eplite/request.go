package eplite

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// APIVersion is the Etherpad Lite HTTP API version embedded in every path.
const APIVersion = 1

// Request is a fully formed call target: for GET the parameters travel in
// URL's query and Body is empty; for POST they travel in Body and URL has
// no query.
type Request struct {
	Verb Verb
	URL  *url.URL
	Body string
}

// String renders the request for logs with the credential redacted.
func (r *Request) String() string {
	u := *r.URL
	u.RawQuery = redactParams(u.RawQuery)
	if r.Verb == POST {
		return fmt.Sprintf("%s %s [%s]", r.Verb, u.String(), redactParams(r.Body))
	}
	return fmt.Sprintf("%s %s", r.Verb, u.String())
}

// newRequest builds the request target for method on base. base is copied,
// never modified.
func newRequest(base *url.URL, method string, verb Verb, params string) (*Request, error) {
	if !verb.Valid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("%s is not a valid HTTP method (use GET or POST)", verb)}
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, &ConfigurationError{Reason: "API method name is required"}
	}

	target := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   strings.TrimSuffix(base.Path, "/") + "/" + strconv.Itoa(APIVersion) + "/" + method,
	}

	req := &Request{Verb: verb, URL: target}
	switch verb {
	case GET:
		target.RawQuery = params
	case POST:
		req.Body = params
	}
	return req, nil
}

// redactParams masks the credential in an encoded parameter string.
// Encode always puts the credential first.
func redactParams(params string) string {
	prefix := APIKeyParam + "="
	if !strings.HasPrefix(params, prefix) {
		return params
	}
	rest := ""
	if i := strings.IndexByte(params, '&'); i >= 0 {
		rest = params[i:]
	}
	return prefix + "REDACTED" + rest
}
