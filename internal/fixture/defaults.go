package fixture

import (
	"context"

	"github.com/themizzi/e2eharness/internal/endpoints"
	"github.com/themizzi/e2eharness/internal/logging"
	"github.com/themizzi/e2eharness/internal/pages"
)

// Names of the default fixtures.
const (
	LoginPageName     = "loginPage"
	InventoryPageName = "inventoryPage"
	UserEndpointsName = "userEndpoints"
)

// LoggerFactory creates the logger of a fixture from its context name.
type LoggerFactory func(context string) logging.Logger

// Default returns a registry holding the page and API objects, logging to
// standard output.
func Default() *Registry {
	return DefaultWith(logging.New)
}

// DefaultWith is Default with a custom logger factory.
func DefaultWith(newLogger LoggerFactory) *Registry {
	return NewRegistry().
		Register(LoginPageName, func(ctx context.Context, h *Handles) (any, func() error, error) {
			page, err := h.Page()
			if err != nil {
				return nil, nil, err
			}
			return pages.NewLoginPage(page, newLogger("LoginPage")), nil, nil
		}).
		Register(InventoryPageName, func(ctx context.Context, h *Handles) (any, func() error, error) {
			page, err := h.Page()
			if err != nil {
				return nil, nil, err
			}
			return pages.NewInventoryPage(page, newLogger("InventoryPage")), nil, nil
		}).
		Register(UserEndpointsName, func(ctx context.Context, h *Handles) (any, func() error, error) {
			request, err := h.Request()
			if err != nil {
				return nil, nil, err
			}
			return endpoints.NewUserEndpoints(request, newLogger("UserEndpoints")), nil, nil
		})
}

// LoginPage returns the login page fixture.
func LoginPage(s *Scope) (*pages.LoginPage, error) {
	return Get[*pages.LoginPage](s, LoginPageName)
}

// InventoryPage returns the inventory page fixture.
func InventoryPage(s *Scope) (*pages.InventoryPage, error) {
	return Get[*pages.InventoryPage](s, InventoryPageName)
}

// UserEndpoints returns the users API fixture.
func UserEndpoints(s *Scope) (*endpoints.UserEndpoints, error) {
	return Get[*endpoints.UserEndpoints](s, UserEndpointsName)
}
