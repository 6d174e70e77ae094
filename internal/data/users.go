package data

import (
	"github.com/google/uuid"

	"github.com/themizzi/e2eharness/internal/endpoints"
)

// Leader is the payload of the create scenario.
func Leader() endpoints.UserPayload {
	return endpoints.UserPayload{Name: "morpheus", Job: "leader"}
}

// Resident is the payload of the update scenario.
func Resident() endpoints.UserPayload {
	return endpoints.UserPayload{Name: "morpheus", Job: "zion resident"}
}

// UniqueUser returns a payload whose name no other test uses.
func UniqueUser(job string) endpoints.UserPayload {
	return endpoints.UserPayload{Name: "user-" + uuid.NewString()[:8], Job: job}
}
