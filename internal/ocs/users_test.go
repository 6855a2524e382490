package ocs_test

import (
	"ocs-acceptance/internal/ocs"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Users", func() {
	var users *ocs.Users

	ginkgo.BeforeEach(func() {
		users = ocs.NewUsers(
			ocs.Credential{Username: "root", Password: "rootpw"},
			"123456",
			map[string]string{"Brian": "brian-renamed"},
		)
	})

	ginkgo.It("should resolve the administrator aliases", func() {
		gomega.Expect(users.ActualUsername("%admin%")).To(gomega.Equal("root"))
		gomega.Expect(users.ActualUsername("Admin")).To(gomega.Equal("root"))
		gomega.Expect(users.PasswordFor("admin")).To(gomega.Equal("rootpw"))
	})

	ginkgo.It("should resolve configured aliases case insensitively", func() {
		gomega.Expect(users.ActualUsername("brian")).To(gomega.Equal("brian-renamed"))
		gomega.Expect(users.ActualUsername("Alice")).To(gomega.Equal("Alice"))
	})

	ginkgo.It("should fall back to the default password", func() {
		gomega.Expect(users.PasswordFor("Alice")).To(gomega.Equal("123456"))

		users.Add("Alice", "%alt1%")
		gomega.Expect(users.PasswordFor("alice")).To(gomega.Equal("%alt1%"))

		users.Forget()
		gomega.Expect(users.PasswordFor("Alice")).To(gomega.Equal("123456"))
	})

	ginkgo.Context("CredentialFor", func() {
		ginkgo.It("should return no credential for the unauthorized user", func() {
			gomega.Expect(ocs.CredentialFor(users, ocs.UnauthorizedUser, nil)).To(gomega.BeNil())
		})

		ginkgo.It("should resolve the name and password", func() {
			gomega.Expect(ocs.CredentialFor(users, "Brian", nil)).
				To(gomega.Equal(&ocs.Credential{Username: "brian-renamed", Password: "123456"}))
		})
	})
})
