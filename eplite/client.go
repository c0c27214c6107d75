// Package eplite is a client for the Etherpad Lite HTTP JSON API.
//
// Every remote procedure goes through one primitive, Client.Invoke: the
// arguments are form-encoded together with the API key, sent as a GET
// query or a POST body to <base>/1/<method>, and the {code, message, data}
// reply is decoded into a Payload or a classified error.
package eplite

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etherpad/eplite-go/internal/debug"
)

// Invoker is the generic call primitive the service helpers are built on.
type Invoker interface {
	Invoke(ctx context.Context, method string, verb Verb, args Args) (Payload, error)
}

// endpoint is the immutable target of a Client.
type endpoint struct {
	base   url.URL
	apiKey string
}

// Client talks to one Etherpad Lite instance with one API key.
// It holds no mutable state and is safe for concurrent use; build a new
// Client for a different endpoint or key.
type Client struct {
	endpoint  endpoint
	transport Transport
	policy    MalformedPolicy
}

// Compile-time interface implementation checks
var _ Invoker = (*Client)(nil)

type settings struct {
	transport  Transport
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	policy     MalformedPolicy
}

// Option configures a Client at construction.
type Option func(*settings)

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(s *settings) { s.transport = t }
}

// WithHTTPClient sends requests through the given *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithTimeout bounds each exchange of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithUserAgent sets the User-Agent header of the default transport.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithMalformedPolicy selects how non-JSON replies are handled.
// The default is MalformedStrict.
func WithMalformedPolicy(p MalformedPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// New creates a client for the instance at baseURL, an absolute http or
// https URL such as "https://pad.example.com" or "http://localhost:9001/api".
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigurationError{Reason: "API key is required"}
	}

	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	transport := s.transport
	if transport == nil {
		ht := NewHTTPTransport(s.timeout)
		if s.httpClient != nil {
			ht.HTTP = s.httpClient
		}
		ht.UserAgent = s.userAgent
		transport = ht
	}

	return &Client{
		endpoint:  endpoint{base: *base, apiKey: apiKey},
		transport: transport,
		policy:    s.policy,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ConfigurationError{Reason: "base URL is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid base URL scheme %q: only http and https are allowed", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &ConfigurationError{Reason: "base URL must include a host"}
	}
	if u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return nil, &ConfigurationError{Reason: "base URL must not contain credentials, a query or a fragment"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u, nil
}

// BaseURL returns the instance URL the client was built with.
func (c *Client) BaseURL() string {
	u := c.endpoint.base
	return u.String()
}

// IsSecure reports whether calls travel over TLS.
func (c *Client) IsSecure() bool {
	return c.endpoint.base.Scheme == "https" || c.endpoint.base.Port() == "443"
}

// MalformedPolicy returns the policy applied to non-JSON replies.
func (c *Client) MalformedPolicy() MalformedPolicy {
	return c.policy
}

// Invoke calls the remote procedure method with args and returns its data.
// Each call performs exactly one exchange; nothing is retried or cached.
func (c *Client) Invoke(ctx context.Context, method string, verb Verb, args Args) (Payload, error) {
	start := time.Now()
	base := c.endpoint.base
	req, err := newRequest(&base, method, verb, Encode(args, c.endpoint.apiKey))
	if err != nil {
		return nil, wrapCall(method, verb, err)
	}

	body, err := c.transport.Send(ctx, req)
	if err != nil {
		if !IsTransportError(err) {
			err = &TransportError{Method: verb.String(), URL: req.URL.Path, Err: err}
		}
		return nil, wrapCall(method, verb, err)
	}

	payload, err := Decode(body, c.policy)
	if debug.IsEnabled(ctx) {
		slog.Debug("invoke complete", "method", method, "verb", verb, "duration", time.Since(start), "ok", err == nil)
	}
	if err != nil {
		return nil, wrapCall(method, verb, err)
	}
	return payload, nil
}

// InvokeVerb is Invoke for callers holding the verb as a string.
// An unknown verb fails with a *ConfigurationError before any exchange.
func (c *Client) InvokeVerb(ctx context.Context, method, verb string, args Args) (Payload, error) {
	v, err := ParseVerb(verb)
	if err != nil {
		return nil, &CallError{Method: method, Verb: strings.ToUpper(verb), Err: err}
	}
	return c.Invoke(ctx, method, v, args)
}

// CallError adds the procedure name to a failed call.
type CallError struct {
	Method string
	Verb   string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Verb, e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

func wrapCall(method string, verb Verb, err error) error {
	return &CallError{Method: method, Verb: verb.String(), Err: err}
}

// WithDebug returns a context that enables debug logging of calls.
func WithDebug(ctx context.Context) context.Context {
	return debug.WithDebug(ctx, true)
}
