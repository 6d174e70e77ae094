//go:build e2e

package e2e

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/endpoints"
	"github.com/themizzi/e2eharness/internal/fixture"
)

// Feature: Users API
//
//	As an API client
//	I want to manage users
//	So that I can keep the directory current
var _ = Describe("ReqRes User API Tests", Label("api"), func() {
	var (
		ctx   context.Context
		users *endpoints.UserEndpoints
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		users, err = fixture.UserEndpoints(newScope())
		Expect(err).NotTo(HaveOccurred())
	})

	// createUser creates a user owned by the current spec.
	createUser := func(payload endpoints.UserPayload) endpoints.CreatedUser {
		GinkgoHelper()
		resp, err := users.CreateUser(ctx, payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(http.StatusCreated))
		return decode[endpoints.CreatedUser](resp)
	}

	It("creates a user", func() {
		leader := data.Leader()

		created := createUser(leader)

		Expect(created.Name).To(Equal(leader.Name))
		Expect(created.Job).To(Equal(leader.Job))
		Expect(created.ID).NotTo(BeEmpty())
		Expect(created.CreatedAt).NotTo(BeEmpty())
	})

	It("reads back a created user", func() {
		if !usingStub {
			Skip("the public service does not persist created users")
		}
		payload := data.UniqueUser("tester")
		created := createUser(payload)
		id, err := created.IntID()
		Expect(err).NotTo(HaveOccurred())

		resp, err := users.GetUser(ctx, id)

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(http.StatusOK))
		single := decode[endpoints.SingleUser](resp)
		Expect(single.Data.ID).To(Equal(id))
		Expect(single.Data.FirstName).To(Equal(payload.Name))
		Expect(single.Data.Job).To(Equal(payload.Job))
	})

	It("gets a single user", func() {
		read := func() endpoints.SingleUser {
			resp, err := users.GetUser(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusOK))
			return decode[endpoints.SingleUser](resp)
		}

		first := read()
		Expect(first.Data.ID).To(Equal(2))
		Expect(first.Data.FirstName).To(Equal("Janet"))

		second := read()
		Expect(second.Data.ID).To(Equal(first.Data.ID))
		Expect(second.Data.FirstName).To(Equal(first.Data.FirstName))
	})

	It("lists users", func() {
		resp, err := users.GetUsers(ctx, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(http.StatusOK))
		list := decode[endpoints.UserList](resp)
		Expect(list.Total).To(BeNumerically(">", 0))
		Expect(list.TotalPages).To(BeNumerically(">", 0))
		Expect(list.Data).NotTo(BeEmpty())
	})

	It("updates a user it created", func() {
		created := createUser(data.UniqueUser("tester"))
		id, err := created.IntID()
		Expect(err).NotTo(HaveOccurred())
		update := data.Resident()

		resp, err := users.UpdateUser(ctx, id, update)

		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Status).To(Equal(http.StatusOK))
		updated := decode[endpoints.UpdatedUser](resp)
		Expect(updated.Name).To(Equal(update.Name))
		Expect(updated.Job).To(Equal(update.Job))
		Expect(updated.UpdatedAt).NotTo(BeEmpty())
	})

	DescribeTable("deletes a user",
		func(target func() int) {
			resp, err := users.DeleteUser(ctx, target())

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(http.StatusNoContent))
			Expect(resp.IsEmpty()).To(BeTrue())
		},
		Entry("seed user", func() int { return 2 }),
		Entry("user created by the spec", func() int {
			created := createUser(data.UniqueUser("tester"))
			id, err := created.IntID()
			Expect(err).NotTo(HaveOccurred())
			return id
		}),
	)
})
