package config

import (
	"fmt"
	"os"
	"strings"
)

// Source tells where resolved settings came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceProfile Source = "profile"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Lenient bool
	Profile string
	Source  Source
}

// Resolve picks the connection settings for a command. In order:
// EPLITE_URL plus EPLITE_API_KEY, the named profile, EPLITE_PROFILE, and
// finally the current profile.
func Resolve(profileName string) (ClientConfig, error) {
	if baseURL := strings.TrimSpace(os.Getenv(EnvURL)); baseURL != "" {
		key := strings.TrimSpace(os.Getenv(EnvAPIKey))
		if key == "" {
			return ClientConfig{}, fmt.Errorf("environment variables %s and %s must both be set", EnvURL, EnvAPIKey)
		}
		return ClientConfig{
			BaseURL: strings.TrimSuffix(baseURL, "/"),
			APIKey:  key,
			Source:  SourceEnv,
		}, nil
	}

	name := strings.TrimSpace(profileName)
	if name == "" {
		name = strings.TrimSpace(os.Getenv(EnvProfile))
	}
	if name == "" {
		current, err := CurrentProfile()
		if err != nil {
			return ClientConfig{}, err
		}
		name = current
	}

	profile, err := LoadProfile(name)
	if err != nil {
		return ClientConfig{}, err
	}
	return ClientConfig{
		BaseURL: profile.BaseURL,
		APIKey:  profile.APIKey,
		Lenient: profile.Lenient,
		Profile: name,
		Source:  SourceProfile,
	}, nil
}
