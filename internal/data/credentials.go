// Package data holds the test data used by the scenarios.
package data

import "github.com/themizzi/e2eharness/internal/config"

// Fixed usernames of the demo application.
const (
	LockedOutUsername = "locked_out_user"
	WrongPassword     = "wrong_password"
)

// Expected validation messages.
const (
	LockedOutError        = "Epic sadface: Sorry, this user has been locked out."
	InvalidPasswordError  = "Epic sadface: Username and password do not match any user in this service"
	UsernameRequiredError = "Epic sadface: Username is required"
	PasswordRequiredError = "Epic sadface: Password is required"
)

// Credential is a login record. ExpectedError is empty for a login that
// should succeed.
type Credential struct {
	Username      string
	Password      string
	Description   string
	ExpectedError string
}

// ShouldSucceed reports whether the login is expected to reach the inventory.
func (c Credential) ShouldSucceed() bool {
	return c.ExpectedError == ""
}

// Credentials is the set of login records the scenarios use.
type Credentials struct {
	StandardUser        Credential
	LockedOutUser       Credential
	InvalidPasswordUser Credential
}

// NewCredentials builds the login records from cfg.
func NewCredentials(cfg *config.CredentialsConfig) Credentials {
	return Credentials{
		StandardUser: Credential{
			Username:    cfg.Username,
			Password:    cfg.Password,
			Description: "Standard User",
		},
		LockedOutUser: Credential{
			Username:      LockedOutUsername,
			Password:      cfg.Password,
			Description:   "Locked Out User",
			ExpectedError: LockedOutError,
		},
		InvalidPasswordUser: Credential{
			Username:      cfg.Username,
			Password:      WrongPassword,
			Description:   "Invalid Password User",
			ExpectedError: InvalidPasswordError,
		},
	}
}

// All returns the records in a stable order.
func (c Credentials) All() []Credential {
	return []Credential{c.StandardUser, c.LockedOutUser, c.InvalidPasswordUser}
}
