package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultUIBaseURL is the web application under test when SAUCE_URL is unset.
const DefaultUIBaseURL = "https://www.saucedemo.com"

// UIConfig holds settings for the browser-driven target.
type UIConfig struct {
	BaseURL string
}

// LoadUIConfig loads UI target configuration.
func LoadUIConfig(getenv func(string) string) (*UIConfig, error) {
	config := &UIConfig{
		BaseURL: getenv("SAUCE_URL"),
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultUIBaseURL
	}
	if err := validateBaseURL("SAUCE_URL", config.BaseURL); err != nil {
		return nil, err
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	return config, nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", key, raw)
	}
	return nil
}
