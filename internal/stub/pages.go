package stub

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/logging"
)

// SessionCookie names the cookie set after a successful login.
const SessionCookie = "session-token"

// Product represents an inventory item.
type Product struct {
	Name        string
	Description string
	Price       string
}

// DefaultProducts is the catalogue shown on the inventory page.
var DefaultProducts = []Product{
	{Name: "Sauce Labs Backpack", Description: "Carry all the things.", Price: "$29.99"},
	{Name: "Sauce Labs Bike Light", Description: "A red light for night rides.", Price: "$9.99"},
	{Name: "Sauce Labs Bolt T-Shirt", Description: "Get your testing superhero on.", Price: "$15.99"},
	{Name: "Sauce Labs Fleece Jacket", Description: "A midweight quarter-zip.", Price: "$49.99"},
	{Name: "Sauce Labs Onesie", Description: "Rib snap infant onesie.", Price: "$7.99"},
	{Name: "Test.allTheThings() T-Shirt (Red)", Description: "Super-soft and comfy.", Price: "$15.99"},
}

// Accounts validates logins the way the demo application does.
type Accounts struct {
	password  string
	usernames map[string]bool
	lockedOut map[string]bool
}

// NewAccounts accepts password for every username. Locked out usernames are
// known but refused.
func NewAccounts(password string, usernames, lockedOut []string) *Accounts {
	a := &Accounts{
		password:  password,
		usernames: map[string]bool{},
		lockedOut: map[string]bool{},
	}
	for _, u := range usernames {
		a.usernames[u] = true
	}
	for _, u := range lockedOut {
		a.usernames[u] = true
		a.lockedOut[u] = true
	}
	return a
}

// Authenticate returns the validation message for a login, or "" when the
// login is accepted.
func (a *Accounts) Authenticate(username, password string) string {
	switch {
	case username == "":
		return data.UsernameRequiredError
	case password == "":
		return data.PasswordRequiredError
	case !a.usernames[username] || password != a.password:
		return data.InvalidPasswordError
	case a.lockedOut[username]:
		return data.LockedOutError
	}
	return ""
}

// sessions maps session tokens to usernames.
type sessions struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newSessions() *sessions {
	return &sessions{tokens: map[string]string{}}
}

func (s *sessions) create(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()
	return token
}

func (s *sessions) lookup(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[cookie.Value]
	return username, ok
}

// LoginView is rendered by the login template.
type LoginView struct {
	Username string
	Error    string
}

// LoginHandler serves the login form and handles submissions.
type LoginHandler struct {
	template *template.Template
	accounts *Accounts
	sessions *sessions
	logger   logging.Logger
}

// Show handles GET /.
func (h *LoginHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, LoginView{})
}

// Submit handles POST /login.
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("user-name")
	password := r.PostFormValue("password")

	if msg := h.accounts.Authenticate(username, password); msg != "" {
		h.logger.Warn("Login rejected", "username", username, "reason", msg)
		h.render(w, LoginView{Username: username, Error: msg})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    h.sessions.create(username),
		Path:     "/",
		HttpOnly: true,
	})
	h.logger.Info("Login accepted", "username", username)
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, view LoginView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, view); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// InventoryView is rendered by the inventory template.
type InventoryView struct {
	Username string
	Products []Product
}

// InventoryHandler serves the product listing to logged in users.
type InventoryHandler struct {
	template *template.Template
	products []Product
	sessions *sessions
}

// ServeHTTP handles GET /inventory.html.
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username, ok := h.sessions.lookup(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, InventoryView{Username: username, Products: h.products}); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
