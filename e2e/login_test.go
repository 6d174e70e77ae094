//go:build e2e

package e2e

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/fixture"
	"github.com/themizzi/e2eharness/internal/pages"
)

// Feature: Login
//
//	As a shopper
//	I want to log in with my credentials
//	So that I can browse the inventory
var _ = Describe("SauceDemo Login Functionality", Label("ui"), func() {
	var (
		ctx           context.Context
		loginPage     *pages.LoginPage
		inventoryPage *pages.InventoryPage
	)

	BeforeEach(func() {
		ctx = context.Background()
		scope := newScope()

		var err error
		loginPage, err = fixture.LoginPage(scope)
		Expect(err).NotTo(HaveOccurred())
		inventoryPage, err = fixture.InventoryPage(scope)
		Expect(err).NotTo(HaveOccurred())

		// Given I am on the login page
		Expect(loginPage.NavigateToLogin(ctx)).To(Succeed())
	})

	It("logs in with the standard user", func() {
		// When I log in as the standard user
		Expect(loginPage.LoginWithCredentials(ctx, creds.StandardUser.Username, creds.StandardUser.Password)).To(Succeed())

		// Then I see the inventory
		Expect(inventoryPage.VerifyInventoryPageIsDisplayed(ctx)).To(Succeed())
		Expect(inventoryPage.ItemCount(ctx)).To(BeNumerically(">", 0))
	})

	DescribeTable("rejects logins that must fail",
		func(pick func() data.Credential) {
			cred := pick()

			// When I log in
			Expect(loginPage.Login(ctx, cred)).To(Succeed())

			// Then I see the validation message and stay on the login page
			Expect(loginPage.GetErrorMessage(ctx)).To(Equal(cred.ExpectedError))
			Expect(loginPage.Page().URL()).NotTo(ContainSubstring("inventory.html"))
		},
		Entry("locked out user", func() data.Credential { return creds.LockedOutUser }),
		Entry("invalid password", func() data.Credential { return creds.InvalidPasswordUser }),
	)

	Context("when the password field was typed into beforehand", func() {
		BeforeEach(func() {
			Expect(loginPage.SafeFill(ctx, loginPage.PasswordInput, creds.StandardUser.Password, "Password Input")).To(Succeed())
		})

		It("keeps the typed password when none is passed", func() {
			Expect(loginPage.LoginWithCredentials(ctx, creds.StandardUser.Username)).To(Succeed())

			Expect(inventoryPage.VerifyInventoryPageIsDisplayed(ctx)).To(Succeed())
		})

		It("clears the field when an empty password is passed", func() {
			Expect(loginPage.LoginWithCredentials(ctx, creds.StandardUser.Username, "")).To(Succeed())

			Expect(loginPage.GetErrorMessage(ctx)).To(Equal(data.PasswordRequiredError))
			Expect(loginPage.PasswordInput.InputValue()).To(BeEmpty())
		})
	})
})
