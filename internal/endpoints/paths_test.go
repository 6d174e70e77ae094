package endpoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	p := NewPaths()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "collection", got: p.Users(0), want: "/api/users"},
		{name: "negative page", got: p.Users(-1), want: "/api/users"},
		{name: "page", got: p.Users(2), want: "/api/users?page=2"},
		{name: "single", got: p.User(2), want: "/api/users/2"},
		{name: "single large id", got: p.User(1024), want: "/api/users/1024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCreatedUser_IntID(t *testing.T) {
	id, err := CreatedUser{ID: "13"}.IntID()
	assert.NoError(t, err)
	assert.Equal(t, 13, id)

	_, err = CreatedUser{ID: "abc"}.IntID()
	assert.ErrorContains(t, err, `"abc"`)
}
