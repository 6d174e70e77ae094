package config

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// profileKeys maps environment variable names to INI section/key pairs.
var profileKeys = map[string][2]string{
	"SAUCE_URL":      {"ui", "base_url"},
	"REQRES_URL":     {"api", "base_url"},
	"REQRES_API_KEY": {"api", "api_key"},
	"SAUCE_USER":     {"credentials", "username"},
	"SAUCE_PASSWORD": {"credentials", "password"},
	"BROWSER":        {"browser", "name"},
	"HEADLESS":       {"browser", "headless"},
	"SLOW_MO":        {"browser", "slow_mo"},
	"TRACE_DIR":      {"browser", "trace_dir"},
	"STUB_PORT":      {"stub", "port"},
}

// Profile is an INI file of named settings, e.g.
//
//	[ui]
//	base_url = http://localhost:8080
//
//	[api]
//	base_url = http://localhost:8080
//	api_key  = reqres-free-v1
type Profile struct {
	path string
	file *ini.File
}

// LoadProfile reads an INI profile from filename.
func LoadProfile(filename string) (*Profile, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	file, err := ini.Load(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", absPath, err)
	}

	return &Profile{path: absPath, file: file}, nil
}

// Path returns the absolute path the profile was read from.
func (p *Profile) Path() string {
	return p.path
}

// Lookup returns the profile value for an environment variable name.
func (p *Profile) Lookup(envKey string) (string, bool) {
	if p == nil {
		return "", false
	}
	loc, ok := profileKeys[envKey]
	if !ok {
		return "", false
	}
	section := p.file.Section(loc[0])
	if !section.HasKey(loc[1]) {
		return "", false
	}
	return section.Key(loc[1]).String(), true
}
