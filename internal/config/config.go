// Package config resolves the harness settings. Sources in precedence order:
// the process environment, a .env file, an INI profile named by E2E_PROFILE,
// then fixed defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config aggregates every settings group.
type Config struct {
	UI          *UIConfig
	API         *APIConfig
	Credentials *CredentialsConfig
	Browser     *BrowserConfig
	Stub        StubConfig
	Profile     *Profile
}

// Load builds a Config from getenv.
func Load(getenv func(string) string) (*Config, error) {
	ui, err := LoadUIConfig(getenv)
	if err != nil {
		return nil, err
	}
	api, err := LoadAPIConfig(getenv)
	if err != nil {
		return nil, err
	}
	browser, err := LoadBrowserConfig(getenv)
	if err != nil {
		return nil, err
	}

	return &Config{
		UI:          ui,
		API:         api,
		Credentials: LoadCredentialsConfig(getenv),
		Browser:     browser,
		Stub:        LoadStubConfig(getenv),
	}, nil
}

// LoadFromEnvironment loads .env files, the optional profile and then the
// Config. A missing .env file is not an error.
func LoadFromEnvironment(envFiles ...string) (*Config, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	var profile *Profile
	if path := os.Getenv("E2E_PROFILE"); path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	cfg, err := Load(Layered(os.Getenv, profile))
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile
	return cfg, nil
}

// LoadDotEnv loads the given .env files (".env" when none are named) without
// overriding variables already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Layered returns a getenv that prefers getenv and falls back to profile.
func Layered(getenv func(string) string, profile *Profile) func(string) string {
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		if v, ok := profile.Lookup(key); ok {
			return v
		}
		return ""
	}
}

// Summary returns the resolved settings with secrets masked.
func (c *Config) Summary() map[string]string {
	summary := map[string]string{
		"SAUCE_URL":      c.UI.BaseURL,
		"REQRES_URL":     c.API.BaseURL,
		"REQRES_API_KEY": maskSecret(c.API.APIKey),
		"SAUCE_USER":     c.Credentials.Username,
		"SAUCE_PASSWORD": maskSecret(c.Credentials.Password),
		"BROWSER":        c.Browser.Name,
		"HEADLESS":       fmt.Sprintf("%t", c.Browser.Headless),
		"SLOW_MO":        c.Browser.SlowMo.String(),
		"TRACE_DIR":      c.Browser.TraceDir,
		"STUB_PORT":      c.Stub.Port,
	}
	if c.Profile != nil {
		summary["E2E_PROFILE"] = c.Profile.Path()
	}
	return summary
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
