// Package pages holds the page objects of the web flow under test.
package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/harness"
	"github.com/themizzi/e2eharness/internal/logging"
)

// LoginPage is the login form.
type LoginPage struct {
	*harness.Browser
	logger logging.Logger

	UsernameInput playwright.Locator
	PasswordInput playwright.Locator
	SubmitButton  playwright.Locator
	ErrorMessage  playwright.Locator
}

// NewLoginPage binds a LoginPage to page.
func NewLoginPage(page harness.Page, logger logging.Logger) *LoginPage {
	b := harness.NewBrowser(page, logger)
	return &LoginPage{
		Browser:       b,
		logger:        logger,
		UsernameInput: b.Locator(LoginUsernameInput),
		PasswordInput: b.Locator(LoginPasswordInput),
		SubmitButton:  b.Locator(LoginButton),
		ErrorMessage:  b.Locator(LoginErrorMessage),
	}
}

// NavigateToLogin loads the root URL.
func (p *LoginPage) NavigateToLogin(ctx context.Context) error {
	p.logger.Info("Navigating to login page...")
	return p.Goto(ctx, "/", "Login Page")
}

// LoginWithCredentials fills the form and submits it. The password field is
// only touched when a password is passed; an explicit "" clears it.
func (p *LoginPage) LoginWithCredentials(ctx context.Context, username string, password ...string) error {
	if len(password) > 1 {
		return fmt.Errorf("login takes at most one password, got %d", len(password))
	}

	p.logger.Info("Attempting login for user: " + username)
	if err := p.SafeFill(ctx, p.UsernameInput, username, "Username Input"); err != nil {
		return err
	}
	if len(password) == 1 {
		if err := p.SafeFill(ctx, p.PasswordInput, password[0], "Password Input"); err != nil {
			return err
		}
	}
	return p.SafeClick(ctx, p.SubmitButton, "Login Button")
}

// Login submits cred, always filling its password.
func (p *LoginPage) Login(ctx context.Context, cred data.Credential) error {
	return p.LoginWithCredentials(ctx, cred.Username, cred.Password)
}

// GetErrorMessage returns the validation message shown under the form.
func (p *LoginPage) GetErrorMessage(ctx context.Context) (string, error) {
	return p.GetText(ctx, p.ErrorMessage, "Error Message")
}
