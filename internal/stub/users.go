package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/themizzi/e2eharness/internal/endpoints"
	"github.com/themizzi/e2eharness/internal/logging"
)

// PerPage is the page size of the user collection.
const PerPage = 6

// timestampLayout matches the service's createdAt/updatedAt values.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var support = endpoints.Support{
	URL:  "https://reqres.in/#support-heading",
	Text: "Served by the e2eharness stub target.",
}

// SeedUsers are the read-only records the service starts with.
var SeedUsers = []endpoints.User{
	seedUser(1, "George", "Bluth"),
	seedUser(2, "Janet", "Weaver"),
	seedUser(3, "Emma", "Wong"),
	seedUser(4, "Eve", "Holt"),
	seedUser(5, "Charles", "Morris"),
	seedUser(6, "Tracey", "Ramos"),
	seedUser(7, "Michael", "Lawson"),
	seedUser(8, "Lindsay", "Ferguson"),
	seedUser(9, "Tobias", "Funke"),
	seedUser(10, "Byron", "Fields"),
	seedUser(11, "George", "Edwards"),
	seedUser(12, "Rachel", "Howell"),
}

func seedUser(id int, first, last string) endpoints.User {
	return endpoints.User{
		ID:        id,
		Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(first), strings.ToLower(last)),
		FirstName: first,
		LastName:  last,
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}

// UserStore keeps the user collection in memory. Seed users are never
// modified; updates and deletes only persist for users created through
// the API.
type UserStore struct {
	mu       sync.RWMutex
	users    map[int]endpoints.User
	readOnly map[int]bool
	nextID   int
	now      func() time.Time
}

// NewUserStore returns a store holding seed.
func NewUserStore(seed []endpoints.User, now func() time.Time) *UserStore {
	s := &UserStore{
		users:    map[int]endpoints.User{},
		readOnly: map[int]bool{},
		nextID:   1,
		now:      now,
	}
	for _, u := range seed {
		s.users[u.ID] = u
		s.readOnly[u.ID] = true
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

// Get returns the user with id.
func (s *UserStore) Get(id int) (endpoints.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// List returns one page of users ordered by id, and the total count.
func (s *UserStore) List(page int) ([]endpoints.User, int) {
	s.mu.RLock()
	all := make([]endpoints.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if page < 1 {
		page = 1
	}
	if page > (len(all)+PerPage-1)/PerPage {
		return []endpoints.User{}, len(all)
	}
	start := (page - 1) * PerPage
	end := start + PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all)
}

// Create stores a new user and returns its record.
func (s *UserStore) Create(p endpoints.UserPayload) endpoints.CreatedUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.users[id] = endpoints.User{ID: id, FirstName: p.Name, Job: p.Job}

	return endpoints.CreatedUser{
		Name:      p.Name,
		Job:       p.Job,
		ID:        strconv.Itoa(id),
		CreatedAt: s.now().UTC().Format(timestampLayout),
	}
}

// Update replaces name and job of a created user.
func (s *UserStore) Update(id int, p endpoints.UserPayload) endpoints.UpdatedUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok && !s.readOnly[id] {
		u.FirstName, u.Job = p.Name, p.Job
		s.users[id] = u
	}

	return endpoints.UpdatedUser{
		Name:      p.Name,
		Job:       p.Job,
		UpdatedAt: s.now().UTC().Format(timestampLayout),
	}
}

// Delete removes a created user.
func (s *UserStore) Delete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readOnly[id] {
		delete(s.users, id)
	}
}

// UsersHandler serves the /api/users resource.
type UsersHandler struct {
	store  *UserStore
	logger logging.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(store *UserStore, logger logging.Logger) *UsersHandler {
	return &UsersHandler{store: store, logger: logger}
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	users, total := h.store.List(page)
	sendJSON(w, h.logger, http.StatusOK, endpoints.UserList{
		Page:       page,
		PerPage:    PerPage,
		Total:      total,
		TotalPages: (total + PerPage - 1) / PerPage,
		Data:       users,
		Support:    support,
	})
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		sendJSON(w, h.logger, http.StatusNotFound, struct{}{})
		return
	}
	user, found := h.store.Get(id)
	if !found {
		sendJSON(w, h.logger, http.StatusNotFound, struct{}{})
		return
	}
	sendJSON(w, h.logger, http.StatusOK, endpoints.SingleUser{Data: user, Support: support})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload endpoints.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendErrorResponse(w, h.logger, "Request body must be a JSON object", http.StatusBadRequest)
		return
	}

	created := h.store.Create(payload)
	h.logger.Info("User created", "id", created.ID, "name", created.Name)
	sendJSON(w, h.logger, http.StatusCreated, created)
}

// Update handles PUT /api/users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		sendJSON(w, h.logger, http.StatusNotFound, struct{}{})
		return
	}
	var payload endpoints.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendErrorResponse(w, h.logger, "Request body must be a JSON object", http.StatusBadRequest)
		return
	}
	sendJSON(w, h.logger, http.StatusOK, h.store.Update(id, payload))
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if id, ok := userID(r); ok {
		h.store.Delete(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func userID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func sendJSON(w http.ResponseWriter, logger logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "status", status, "error", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, logger logging.Logger, message string, statusCode int) {
	sendJSON(w, logger, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
