// Package endpoints holds the API objects for the REST service under test.
package endpoints

import (
	"context"
	"fmt"
	"strconv"

	"github.com/themizzi/e2eharness/internal/harness"
	"github.com/themizzi/e2eharness/internal/logging"
)

// UserPayload is the body sent on create and update.
type UserPayload struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// CreatedUser is the body returned by a create. The service reports the id
// as a string.
type CreatedUser struct {
	Name      string `json:"name"`
	Job       string `json:"job"`
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// IntID parses ID.
func (u CreatedUser) IntID() (int, error) {
	id, err := strconv.Atoi(u.ID)
	if err != nil {
		return 0, fmt.Errorf("created user id %q is not numeric: %w", u.ID, err)
	}
	return id, nil
}

// UpdatedUser is the body returned by an update.
type UpdatedUser struct {
	Name      string `json:"name"`
	Job       string `json:"job"`
	UpdatedAt string `json:"updatedAt"`
}

// User is a stored user record. Job is only reported for users created
// through the API.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
	Job       string `json:"job,omitempty"`
}

// Support is the informational block attached to read responses.
type Support struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// SingleUser is the body returned for one user.
type SingleUser struct {
	Data    User    `json:"data"`
	Support Support `json:"support"`
}

// UserList is one page of the user collection.
type UserList struct {
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Data       []User  `json:"data"`
	Support    Support `json:"support"`
}

// UserEndpoints represents the /api/users resource.
type UserEndpoints struct {
	*harness.API
	paths *Paths
}

// NewUserEndpoints binds the users resource to requester.
func NewUserEndpoints(requester harness.Requester, logger logging.Logger) *UserEndpoints {
	return &UserEndpoints{
		API:   harness.NewAPI(requester, logger),
		paths: NewPaths(),
	}
}

// CreateUser creates a new user.
func (e *UserEndpoints) CreateUser(ctx context.Context, user UserPayload) (*harness.Response, error) {
	return e.Post(ctx, e.paths.Users(0), user, "Create user "+user.Name)
}

// GetUser fetches a single user.
func (e *UserEndpoints) GetUser(ctx context.Context, id int) (*harness.Response, error) {
	return e.Get(ctx, e.paths.User(id), fmt.Sprintf("Get user %d", id))
}

// GetUsers fetches one page of users. Page 0 lets the service choose.
func (e *UserEndpoints) GetUsers(ctx context.Context, page int) (*harness.Response, error) {
	description := "Get users"
	if page > 0 {
		description = fmt.Sprintf("Get users page %d", page)
	}
	return e.Get(ctx, e.paths.Users(page), description)
}

// UpdateUser replaces a user's name and job.
func (e *UserEndpoints) UpdateUser(ctx context.Context, id int, user UserPayload) (*harness.Response, error) {
	return e.Put(ctx, e.paths.User(id), user, fmt.Sprintf("Update user %d", id))
}

// DeleteUser deletes a user.
func (e *UserEndpoints) DeleteUser(ctx context.Context, id int) (*harness.Response, error) {
	return e.Delete(ctx, e.paths.User(id), fmt.Sprintf("Delete user %d", id))
}
