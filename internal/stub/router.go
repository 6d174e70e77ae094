// Package stub is a local stand-in for both targets: the login and
// inventory web flow and the /api/users REST resource.
package stub

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/themizzi/e2eharness/internal/config"
	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/endpoints"
	"github.com/themizzi/e2eharness/internal/logging"
)

//go:embed templates/*.html
var templates embed.FS

// Options configures the stub target.
type Options struct {
	// Password is accepted for every known username.
	Password  string
	Usernames []string
	LockedOut []string
	// APIKey, when set, is required in the x-api-key header of API calls.
	APIKey   string
	Products []Product
	Users    []endpoints.User
	Now      func() time.Time
}

// DefaultOptions mirrors the public demo accounts.
func DefaultOptions() Options {
	return Options{
		Password:  config.DefaultPassword,
		Usernames: []string{config.DefaultUsername, "problem_user", "performance_glitch_user", "error_user", "visual_user"},
		LockedOut: []string{data.LockedOutUsername},
		Products:  DefaultProducts,
		Users:     SeedUsers,
		Now:       time.Now,
	}
}

// OptionsFor returns DefaultOptions extended with the configured login and
// API key.
func OptionsFor(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.Password = cfg.Credentials.Password
	opts.Usernames = append(opts.Usernames, cfg.Credentials.Username)
	opts.APIKey = cfg.API.APIKey
	return opts
}

// NewRouter builds the stub target's routes.
func NewRouter(opts Options, logger logging.Logger) (http.Handler, error) {
	loginTmpl, err := template.ParseFS(templates, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse login template: %w", err)
	}
	inventoryTmpl, err := template.ParseFS(templates, "templates/inventory.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory template: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sess := newSessions()
	login := &LoginHandler{
		template: loginTmpl,
		accounts: NewAccounts(opts.Password, opts.Usernames, opts.LockedOut),
		sessions: sess,
		logger:   logger,
	}
	inventory := &InventoryHandler{template: inventoryTmpl, products: opts.Products, sessions: sess}
	users := NewUsersHandler(NewUserStore(opts.Users, opts.Now), logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", login.Show)
	r.Post("/login", login.Submit)
	r.Method(http.MethodGet, "/inventory.html", inventory)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAPIKey(opts.APIKey, logger))
		r.Get("/", users.List)
		r.Post("/", users.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", users.Get)
			r.Put("/", users.Update)
			r.Delete("/", users.Delete)
		})
	})

	return r, nil
}

// requireAPIKey rejects requests without the configured key. An empty key
// disables the check.
func requireAPIKey(key string, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" && r.Header.Get(config.APIKeyHeader) != key {
				sendErrorResponse(w, logger, "Missing or invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info(fmt.Sprintf("%s %s %d", r.Method, r.URL.RequestURI(), ww.Status()),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start).String())
		})
	}
}
