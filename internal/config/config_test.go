package config

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring sets up a mock keyring for the duration of a test
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	}))
}

func clearConnectionEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvURL, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvProfile, "")
}

func TestProfileKey(t *testing.T) {
	tests := []struct {
		profile  string
		expected string
	}{
		{"", defaultKey},
		{"default", defaultKey},
		{"work", profilePrefix + "work"},
		{"local", profilePrefix + "local"},
	}

	for _, tt := range tests {
		if got := profileKey(tt.profile); got != tt.expected {
			t.Errorf("profileKey(%q) = %q, want %q", tt.profile, got, tt.expected)
		}
	}
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" default ", "work", "", "default", "  ", "local"})
	want := []string{"default", "work", "local"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("normalizeProfiles() = %v, want %v", got, want)
	}
	if normalizeProfiles(nil) != nil {
		t.Error("normalizeProfiles(nil) should be nil")
	}
}

func TestLoadProfileIndex(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	profiles, err := loadProfileIndex(ring)
	if err != nil || len(profiles) != 0 {
		t.Fatalf("loadProfileIndex() on empty ring = %v, %v", profiles, err)
	}

	ring = keyring.NewArrayKeyring([]keyring.Item{{Key: profileIndexKey, Data: []byte(`not json`)}})
	if _, err := loadProfileIndex(ring); err == nil {
		t.Error("expected error for invalid index JSON")
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	err := SaveProfile("local", Profile{BaseURL: "http://localhost:9001/ ", APIKey: "secret"})
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	profile, err := LoadProfile("local")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if profile.BaseURL != "http://localhost:9001" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", profile.BaseURL)
	}
	if profile.APIKey != "secret" {
		t.Errorf("APIKey = %q", profile.APIKey)
	}

	current, err := CurrentProfile()
	if err != nil || current != "local" {
		t.Errorf("CurrentProfile() = %q, %v; want local", current, err)
	}

	item, err := ring.Get(profileIndexKey)
	if err != nil {
		t.Fatalf("profile index missing: %v", err)
	}
	var index []string
	if err := json.Unmarshal(item.Data, &index); err != nil || len(index) != 1 || index[0] != "local" {
		t.Errorf("index = %s, %v", item.Data, err)
	}
}

func TestLoadProfileNotConfigured(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	_, err := LoadProfile("missing")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("LoadProfile() error = %v, want ErrNotConfigured", err)
	}
}

func TestLoadProfileInvalidJSON(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: defaultKey, Data: []byte("{")}}))

	if _, err := LoadProfile(""); err == nil {
		t.Error("expected error for invalid profile JSON")
	}
}

func TestKeyringErrors(t *testing.T) {
	withFailingKeyring(t, errors.New("locked"))

	if err := SaveProfile("x", Profile{}); err == nil || !strings.Contains(err.Error(), "failed to open keyring") {
		t.Errorf("SaveProfile() error = %v", err)
	}
	if _, err := LoadProfile("x"); err == nil {
		t.Error("LoadProfile() should fail")
	}
	if err := DeleteProfile("x"); err == nil {
		t.Error("DeleteProfile() should fail")
	}
	if _, err := ListProfiles(); err == nil {
		t.Error("ListProfiles() should fail")
	}
	if _, err := CurrentProfile(); err == nil {
		t.Error("CurrentProfile() should fail")
	}
}

func TestDeleteProfileSwitchesCurrentProfile(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	if err := SaveProfile("a", Profile{BaseURL: "http://a", APIKey: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := SaveProfile("b", Profile{BaseURL: "http://b", APIKey: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := DeleteProfile("b"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}

	current, _ := CurrentProfile()
	if current != "a" {
		t.Errorf("CurrentProfile() = %q, want a", current)
	}
	profiles, _ := ListProfiles()
	if len(profiles) != 1 || profiles[0] != "a" {
		t.Errorf("ListProfiles() = %v", profiles)
	}
	if _, err := LoadProfile("b"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("deleted profile still loadable: %v", err)
	}
}

func TestListProfilesLegacyDefault(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: defaultKey, Data: []byte(`{}`)}}))

	profiles, err := ListProfiles()
	if err != nil || len(profiles) != 1 || profiles[0] != defaultProfile {
		t.Errorf("ListProfiles() = %v, %v", profiles, err)
	}
}

func TestResolveFromEnv(t *testing.T) {
	withFailingKeyring(t, errors.New("should not be opened"))
	t.Setenv(EnvURL, "https://pad.example.com/")
	t.Setenv(EnvAPIKey, "k")

	cfg, err := Resolve("ignored")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BaseURL != "https://pad.example.com" || cfg.APIKey != "k" || cfg.Source != SourceEnv {
		t.Errorf("Resolve() = %+v", cfg)
	}
}

func TestResolveEnvRequiresKey(t *testing.T) {
	t.Setenv(EnvURL, "https://pad.example.com")
	t.Setenv(EnvAPIKey, "")

	_, err := Resolve("")
	if err == nil || !strings.Contains(err.Error(), EnvAPIKey) {
		t.Errorf("Resolve() error = %v, want mention of %s", err, EnvAPIKey)
	}
}

func TestResolveProfileOrder(t *testing.T) {
	clearConnectionEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	if err := SaveProfile("env", Profile{BaseURL: "http://env", APIKey: "e"}); err != nil {
		t.Fatal(err)
	}
	if err := SaveProfile("flag", Profile{BaseURL: "http://flag", APIKey: "f", Lenient: true}); err != nil {
		t.Fatal(err)
	}
	if err := SaveProfile("current", Profile{BaseURL: "http://current", APIKey: "c"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve("")
	if err != nil || cfg.Profile != "current" {
		t.Errorf("Resolve() with no selection = %+v, %v", cfg, err)
	}

	t.Setenv(EnvProfile, "env")
	cfg, err = Resolve("")
	if err != nil || cfg.BaseURL != "http://env" {
		t.Errorf("Resolve() with %s = %+v, %v", EnvProfile, cfg, err)
	}

	cfg, err = Resolve("flag")
	if err != nil || cfg.BaseURL != "http://flag" || !cfg.Lenient || cfg.Source != SourceProfile {
		t.Errorf("Resolve(flag) = %+v, %v", cfg, err)
	}
}

func TestKeyringConfig_FileBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "file")
	base := t.TempDir()
	t.Setenv(envCredentialsDir, base)

	cfg := keyringConfig()
	if cfg.ServiceName != serviceName {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, serviceName)
	}
	if len(cfg.AllowedBackends) != 1 || cfg.AllowedBackends[0] != keyring.FileBackend {
		t.Fatalf("AllowedBackends = %v, want [%s]", cfg.AllowedBackends, keyring.FileBackend)
	}
	if cfg.FileDir != filepath.Join(base, "keyring") {
		t.Fatalf("FileDir = %q", cfg.FileDir)
	}
	if cfg.FilePasswordFunc == nil {
		t.Fatal("FilePasswordFunc is nil; expected configured password function")
	}
}

func TestKeyringConfig_SystemBackendOverride(t *testing.T) {
	t.Setenv(envKeyringBackend, "system")

	cfg := keyringConfig()
	if cfg.FileDir != "" || cfg.FilePasswordFunc != nil || len(cfg.AllowedBackends) != 0 {
		t.Fatalf("system backend should leave file settings unset: %+v", cfg)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		backend  string
		dbusAddr string
		want     bool
	}{
		{"explicit file", "darwin", keyringBackendFile, "ignored", true},
		{"headless linux", "linux", keyringBackendAuto, "", true},
		{"linux desktop", "linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"system backend", "linux", keyringBackendSystem, "", false},
		{"non-linux auto", "windows", keyringBackendAuto, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbusAddr); got != tt.want {
				t.Fatalf("shouldForceFileBackend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyringBackendMode(t *testing.T) {
	tests := map[string]string{
		"":        keyringBackendAuto,
		"file":    keyringBackendFile,
		"FILE":    keyringBackendFile,
		"system":  keyringBackendSystem,
		"native":  keyringBackendSystem,
		"unknown": keyringBackendAuto,
	}
	for value, want := range tests {
		t.Setenv(envKeyringBackend, value)
		if got := keyringBackendMode(); got != want {
			t.Errorf("keyringBackendMode() with %q = %q, want %q", value, got, want)
		}
	}
}

func TestDirDefaultsToUserConfigDir(t *testing.T) {
	t.Setenv(envCredentialsDir, "")
	fake := t.TempDir()
	original := userConfigDir
	userConfigDir = func() (string, error) { return fake, nil }
	t.Cleanup(func() { userConfigDir = original })

	if got := keyringFileDir(); got != filepath.Join(fake, serviceName, "keyring") {
		t.Errorf("keyringFileDir() = %q", got)
	}
	if got := DotEnvPath(); got != filepath.Join(fake, serviceName, ".env") {
		t.Errorf("DotEnvPath() = %q", got)
	}
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, "env-pass")
	password, err := keyringFilePassword("prompt")
	if err != nil || password != "env-pass" {
		t.Fatalf("keyringFilePassword() = %q, %v", password, err)
	}

	t.Setenv(envKeyringPassword, "")
	original := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = original })

	_, err = keyringFilePassword("prompt")
	if err == nil || !strings.Contains(err.Error(), envKeyringPassword) {
		t.Fatalf("error = %v, want to mention %s", err, envKeyringPassword)
	}
}
