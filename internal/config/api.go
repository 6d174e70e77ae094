package config

import "strings"

// DefaultAPIBaseURL is the REST service under test when REQRES_URL is unset.
const DefaultAPIBaseURL = "https://reqres.in"

// APIKeyHeader carries REQRES_API_KEY when one is configured.
const APIKeyHeader = "x-api-key"

// APIConfig holds settings for the REST target.
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// LoadAPIConfig loads REST target configuration.
func LoadAPIConfig(getenv func(string) string) (*APIConfig, error) {
	config := &APIConfig{
		BaseURL: getenv("REQRES_URL"),
		APIKey:  getenv("REQRES_API_KEY"),
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultAPIBaseURL
	}
	if err := validateBaseURL("REQRES_URL", config.BaseURL); err != nil {
		return nil, err
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	return config, nil
}

// Headers returns the extra headers sent with every API request.
func (c *APIConfig) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.APIKey != "" {
		headers[APIKeyHeader] = c.APIKey
	}
	return headers
}
