package eplite

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etherpad/eplite-go/internal/debug"
)

// DefaultTimeout bounds a single exchange made by the default transport.
const DefaultTimeout = 30 * time.Second

// Transport performs one exchange and returns the raw reply body.
// Implementations must be safe for concurrent use and must report
// failures to complete the exchange as *TransportError.
type Transport interface {
	Send(ctx context.Context, req *Request) ([]byte, error)
}

// HTTPTransport is the net/http Transport. It returns the body whatever
// the HTTP status: the service reports failures inside the JSON envelope.
type HTTPTransport struct {
	HTTP      *http.Client
	UserAgent string
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns a transport on a cloned default transport with
// TLS 1.2 as the minimum version.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) ([]byte, error) {
	method := req.Verb.String()
	target := req.URL.String()

	var body io.Reader
	if req.Verb == POST {
		body = strings.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL.Path, Err: err}
	}
	if req.Verb == POST {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		err = scrubURLError(err)
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "request", req.String(), "error", err)
		}
		return nil, &TransportError{Method: method, URL: req.URL.Path, Err: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL.Path, Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("response received", "request", req.String(), "status", resp.StatusCode, "bytes", len(respBody))
	}
	return respBody, nil
}

// scrubURLError masks the credential in the URL net/http embeds in its
// errors; a GET query carries it.
func scrubURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
		u.RawQuery = redactParams(u.RawQuery)
		urlErr.URL = u.String()
	}
	return err
}
