package config

import (
	"fmt"
	"strconv"
	"time"
)

// Supported browser engines.
const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"
)

// BrowserConfig controls how the browser is launched.
type BrowserConfig struct {
	Name     string
	Headless bool
	SlowMo   time.Duration
	// TraceDir receives playwright traces of failed specs. Empty disables
	// tracing.
	TraceDir string
}

// LoadBrowserConfig loads browser launch settings.
func LoadBrowserConfig(getenv func(string) string) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Name:     getenv("BROWSER"),
		Headless: true,
		TraceDir: getenv("TRACE_DIR"),
	}

	if config.Name == "" {
		config.Name = Chromium
	}
	switch config.Name {
	case Chromium, Firefox, WebKit:
	default:
		return nil, fmt.Errorf("BROWSER must be one of %s, %s, %s; got %q", Chromium, Firefox, WebKit, config.Name)
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS has invalid boolean %q: %w", v, err)
		}
		config.Headless = headless
	}

	if v := getenv("SLOW_MO"); v != "" {
		slowMo, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SLOW_MO has invalid duration %q: %w", v, err)
		}
		config.SlowMo = slowMo
	}

	return config, nil
}
