package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Checker{URL: server.URL, HTTP: server.Client()}
}

func releaseHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"1.0.0":   "v1.0.0",
		"v1.0.0":  "v1.0.0",
		" 0.2.1 ": "v0.2.1",
		"":        "v",
	}
	for in, want := range tests {
		if got := canonical(in); got != want {
			t.Errorf("canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheck_DevVersion(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("dev builds should not query the server")
	})
	if c.Check(context.Background(), "dev") != nil {
		t.Error("Expected nil for dev version")
	}
	if c.Check(context.Background(), "") != nil {
		t.Error("Expected nil for empty version")
	}
}

func TestCheck_Versions(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		body      string
		available bool
	}{
		{"newer patch", "1.0.0", `{"tag_name":"v1.0.1","html_url":"https://example.com/r"}`, true},
		{"newer major", "v1.9.9", `{"tag_name":"v2.0.0"}`, true},
		{"same", "1.2.0", `{"tag_name":"v1.2.0"}`, false},
		{"current newer", "1.3.0", `{"tag_name":"v1.2.0"}`, false},
		{"prerelease ignored", "1.0.0", `{"tag_name":"v1.1.0-rc.1","prerelease":true}`, false},
		{"invalid current", "abc", `{"tag_name":"v1.0.0"}`, false},
		{"invalid latest", "1.0.0", `{"tag_name":"latest"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, releaseHandler(tt.body))
			result := c.Check(context.Background(), tt.current)
			if result == nil {
				t.Fatal("expected result")
			}
			if result.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.available)
			}
			if result.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q", result.CurrentVersion)
			}
		})
	}
}

func TestCheck_StripsTagPrefix(t *testing.T) {
	c := newTestChecker(t, releaseHandler(`{"tag_name":"v0.3.0","html_url":"https://example.com/r"}`))
	result := c.Check(context.Background(), "0.2.0")
	if result == nil || result.LatestVersion != "0.3.0" || result.UpdateURL != "https://example.com/r" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheck_FailuresReturnNil(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"rate limited": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
		"invalid json": releaseHandler(`{not json`),
		"empty tag":    releaseHandler(`{"tag_name":""}`),
		"empty body":   releaseHandler(``),
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestChecker(t, handler)
			if result := c.Check(context.Background(), "1.0.0"); result != nil {
				t.Errorf("expected nil, got %+v", result)
			}
		})
	}
}

func TestCheck_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := &Checker{URL: url}
	if c.Check(context.Background(), "1.0.0") != nil {
		t.Error("expected nil on connection error")
	}
}

func TestCheck_ContextCanceled(t *testing.T) {
	c := newTestChecker(t, releaseHandler(`{"tag_name":"v9.0.0"}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if c.Check(ctx, "1.0.0") != nil {
		t.Error("expected nil for canceled context")
	}
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	if c.URL != DefaultReleasesURL {
		t.Errorf("URL = %q", c.URL)
	}
	if c.HTTP == nil || c.HTTP.Timeout != CheckTimeout {
		t.Error("expected HTTP client with CheckTimeout")
	}
}
