package endpoints

import (
	"fmt"
	"net/url"
	"strconv"
)

const usersPath = "/api/users"

// Paths builds the REST resource paths.
type Paths struct{}

// NewPaths creates a new Paths instance.
func NewPaths() *Paths {
	return &Paths{}
}

// Users returns the collection path, with a page query when page > 0.
func (p *Paths) Users(page int) string {
	if page <= 0 {
		return usersPath
	}
	q := url.Values{"page": {strconv.Itoa(page)}}
	return usersPath + "?" + q.Encode()
}

// User returns the path of a single user.
func (p *Paths) User(id int) string {
	return fmt.Sprintf("%s/%s", usersPath, url.PathEscape(strconv.Itoa(id)))
}
