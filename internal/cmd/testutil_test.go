package cmd

// Test helpers for running commands against a fake Etherpad instance.
//
//	fake := newFakeEtherpad().On("getText", okReply(`{"text":"hello\n"}`))
//	setupTestEnv(t, fake)
//	out := captureStdout(t, func() {
//	    require.NoError(t, Execute(context.Background(), []string{"text", "get", "standup"}))
//	})
//
// Methods without a registered reply answer like a server that does not
// know them (code 3).

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/etherpad/eplite-go/internal/config"
)

const testAPIKey = "test-key-0123456789"

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

// apiCall is one request seen by the fake server.
type apiCall struct {
	Verb   string
	Method string
	Params url.Values
	// Raw is the encoded query or body, in the order it was sent.
	Raw string
}

// fakeEtherpad answers /api/1/<method> with canned envelopes.
type fakeEtherpad struct {
	mu      sync.Mutex
	replies map[string]func(url.Values) string
	calls   []apiCall
}

func newFakeEtherpad() *fakeEtherpad {
	return &fakeEtherpad{replies: make(map[string]func(url.Values) string)}
}

// On registers a fixed reply body for method.
func (f *fakeEtherpad) On(method, body string) *fakeEtherpad {
	return f.OnFunc(method, func(url.Values) string { return body })
}

// OnFunc registers a reply computed from the call's parameters.
func (f *fakeEtherpad) OnFunc(method string, reply func(url.Values) string) *fakeEtherpad {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method] = reply
	return f
}

func (f *fakeEtherpad) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method, ok := strings.CutPrefix(r.URL.Path, "/api/1/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	raw := r.URL.RawQuery
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
	}
	params, _ := url.ParseQuery(raw)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Verb: r.Method, Method: method, Params: params, Raw: raw})
	reply, found := f.replies[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if params.Get("apikey") != testAPIKey {
		_, _ = w.Write([]byte(`{"code":4,"message":"no or wrong API Key","data":null}`))
		return
	}
	if !found {
		_, _ = w.Write([]byte(`{"code":3,"message":"no such function","data":null}`))
		return
	}
	_, _ = w.Write([]byte(reply(params)))
}

func (f *fakeEtherpad) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

// okReply wraps data in a success envelope.
func okReply(data string) string {
	return `{"code":0,"message":"ok","data":` + data + `}`
}

// errReply builds a failure envelope.
func errReply(code int, message string) string {
	return `{"code":` + strconv.Itoa(code) + `,"message":"` + message + `","data":null}`
}

// setupTestEnv starts the fake server and points the CLI at it through
// the environment. Retries are off and the config directory is empty.
func setupTestEnv(t *testing.T, fake *fakeEtherpad) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	isolateConfig(t)
	t.Setenv(config.EnvURL, server.URL+"/api")
	t.Setenv(config.EnvAPIKey, testAPIKey)
	t.Setenv("EPLITE_OUTPUT", "text")
	t.Setenv("EPLITE_MAX_RETRIES", "0")
	return server
}

// isolateConfig points the config directory at a temp dir.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
}

// useSharedKeyring keeps saved profiles across keyring opens for one test.
func useSharedKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	cleanup := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(cleanup)
}
