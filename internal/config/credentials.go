package config

// Fallback credentials of the public demo application.
const (
	DefaultUsername = "standard_user"
	DefaultPassword = "secret_sauce"
)

// CredentialsConfig holds the login used by the standard user scenarios.
type CredentialsConfig struct {
	Username string
	Password string
}

// LoadCredentialsConfig loads credentials, falling back to the demo login.
func LoadCredentialsConfig(getenv func(string) string) *CredentialsConfig {
	config := &CredentialsConfig{
		Username: getenv("SAUCE_USER"),
		Password: getenv("SAUCE_PASSWORD"),
	}

	if config.Username == "" {
		config.Username = DefaultUsername
	}
	if config.Password == "" {
		config.Password = DefaultPassword
	}

	return config
}
