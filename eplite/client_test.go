package eplite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records requests and replies with a fixed body.
type fakeTransport struct {
	mu    sync.Mutex
	reqs  []*Request
	body  string
	err   error
	calls atomic.Int32
}

func (f *fakeTransport) Send(_ context.Context, req *Request) ([]byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func (f *fakeTransport) last() *Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		return nil
	}
	return f.reqs[len(f.reqs)-1]
}

func newFakeClient(t *testing.T, body string, opts ...Option) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{body: body}
	c, err := New("http://pad.test/api", "key", append([]Option{WithTransport(ft)}, opts...)...)
	require.NoError(t, err)
	return c, ft
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
	}{
		{"empty url", "", "k"},
		{"relative url", "pad.example.com", "k"},
		{"ftp scheme", "ftp://pad.example.com", "k"},
		{"no host", "http://", "k"},
		{"query", "http://pad.example.com?x=1", "k"},
		{"credentials", "http://user:pw@pad.example.com", "k"},
		{"empty key", "http://pad.example.com", ""},
		{"blank key", "http://pad.example.com", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.baseURL, tt.apiKey)
			assert.True(t, IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestClientAccessors(t *testing.T) {
	c, err := New("https://pad.example.com/", "k")
	require.NoError(t, err)
	assert.Equal(t, "https://pad.example.com", c.BaseURL())
	assert.True(t, c.IsSecure())
	assert.Equal(t, MalformedStrict, c.MalformedPolicy())

	c, err = New("http://pad.example.com:443", "k", WithMalformedPolicy(MalformedLenient))
	require.NoError(t, err)
	assert.True(t, c.IsSecure())
	assert.Equal(t, MalformedLenient, c.MalformedPolicy())

	c, err = New("http://localhost:9001", "k")
	require.NoError(t, err)
	assert.False(t, c.IsSecure())
}

func TestInvokeGet(t *testing.T) {
	c, ft := newFakeClient(t, `{"code":0,"message":"ok","data":{"text":"hello"}}`)

	payload, err := c.Invoke(context.Background(), "getText", GET, Args{{"padID", "x"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", payload["text"])

	req := ft.last()
	require.NotNil(t, req)
	assert.Equal(t, GET, req.Verb)
	assert.Equal(t, "/api/1/getText", req.URL.Path)
	assert.Equal(t, "apikey=key&padID=x", req.URL.RawQuery)
	assert.Empty(t, req.Body)
}

func TestInvokePost(t *testing.T) {
	c, ft := newFakeClient(t, `{"code":0,"message":"ok","data":null}`)

	payload, err := c.Invoke(context.Background(), "setText", POST, Args{{"padID", "x"}, {"text", "a b"}})
	require.NoError(t, err)
	assert.Empty(t, payload)

	req := ft.last()
	assert.Equal(t, POST, req.Verb)
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, "apikey=key&padID=x&text=a+b", req.Body)
}

func TestInvokeRemoteError(t *testing.T) {
	c, _ := newFakeClient(t, `{"code":4,"message":"no or wrong API key","data":null}`)

	_, err := c.Invoke(context.Background(), "listPads", GET, nil)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, CodeInvalidAPIKey, remote.Code)
	assert.Equal(t, "no or wrong API key", remote.Message)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "listPads", callErr.Method)
	assert.Equal(t, "GET", callErr.Verb)
}

func TestInvokeUnrecognizedCode(t *testing.T) {
	c, _ := newFakeClient(t, `{"code":99,"message":"?","data":null}`)
	_, err := c.Invoke(context.Background(), "getText", GET, nil)
	assert.True(t, IsProtocolError(err))
	assert.False(t, IsRemoteError(err))
}

func TestInvokeMalformedPolicies(t *testing.T) {
	strict, _ := newFakeClient(t, `<html>oops</html>`)
	_, err := strict.Invoke(context.Background(), "getText", GET, nil)
	assert.True(t, IsProtocolError(err))

	lenient, _ := newFakeClient(t, `<html>oops</html>`, WithMalformedPolicy(MalformedLenient))
	payload, err := lenient.Invoke(context.Background(), "getText", GET, nil)
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestInvokeVerbRejectsUnknownVerb(t *testing.T) {
	c, ft := newFakeClient(t, `{"code":0}`)

	_, err := c.InvokeVerb(context.Background(), "getText", "PUT", nil)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, int32(0), ft.calls.Load())

	_, err = c.InvokeVerb(context.Background(), "getText", "get", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), ft.calls.Load())
}

func TestInvokeEmptyMethod(t *testing.T) {
	c, ft := newFakeClient(t, `{"code":0}`)
	_, err := c.Invoke(context.Background(), "", GET, nil)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, int32(0), ft.calls.Load())
}

func TestInvokeWrapsForeignTransportErrors(t *testing.T) {
	c, ft := newFakeClient(t, "")
	ft.err = errors.New("boom")

	_, err := c.Invoke(context.Background(), "getText", GET, nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/api/1/getText", te.URL)
	assert.NotContains(t, err.Error(), "apikey=key")
}

func TestInvokeConcurrent(t *testing.T) {
	c, ft := newFakeClient(t, `{"code":0,"data":{"ok":true}}`)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Invoke(context.Background(), "getText", GET, Args{{"padID", fmt.Sprintf("p%d", i)}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(50), ft.calls.Load())
	assert.Equal(t, "http://pad.test/api", c.BaseURL())
}

func TestHTTPTransportEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotQuery, gotBody, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if r.URL.Path != "/1/createGroupPad" && r.URL.Path != "/1/getText" {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"text":"hi"}}`))
	}))
	defer server.Close()

	c, err := New(server.URL, "secret", WithUserAgent("eplite-test"))
	require.NoError(t, err)

	payload, err := c.Invoke(context.Background(), "getText", GET, Args{{"padID", "x"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", payload["text"])
	mu.Lock()
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "apikey=secret&padID=x", gotQuery)
	assert.Empty(t, gotBody)
	mu.Unlock()

	_, err = c.Invoke(context.Background(), "createGroupPad", POST, Args{{"groupID", "g"}, {"padName", "p"}})
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Empty(t, gotQuery)
	assert.Equal(t, "apikey=secret&groupID=g&padName=p", gotBody)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestHTTPTransportIgnoresHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":4,"message":"no or wrong API key","data":null}`))
	}))
	defer server.Close()

	c, err := New(server.URL, "wrong")
	require.NoError(t, err)
	_, err = c.Invoke(context.Background(), "listAllGroups", GET, nil)
	code, ok := RemoteCode(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, CodeInvalidAPIKey, code)
}

func TestHTTPTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, err := New(server.URL, "secret", WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), "getText", GET, Args{{"padID", "x"}})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
	assert.NotContains(t, err.Error(), "secret")
	assert.Equal(t, ErrTimeout, StructuredErrorFromError(err).Code)
}

func TestHTTPTransportConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	c, err := New(target, "secret")
	require.NoError(t, err)
	_, err = c.Invoke(context.Background(), "getText", GET, nil)
	assert.True(t, IsTransportError(err))
	assert.False(t, strings.Contains(err.Error(), "secret"))
}
