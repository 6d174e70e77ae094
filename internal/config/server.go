package config

// StubConfig holds settings for the local stub target server.
type StubConfig struct {
	Port string
}

// LoadStubConfig loads stub server configuration.
func LoadStubConfig(getenv func(string) string) StubConfig {
	port := getenv("STUB_PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	return StubConfig{
		Port: port,
	}
}
