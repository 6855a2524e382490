package ocs_test

import (
	"ocs-acceptance/internal/ocs"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ScenarioContext", func() {
	ginkgo.It("should start from the configured defaults", func() {
		sc := ocs.NewScenarioContext(2, "admin")

		gomega.Expect(sc.APIVersion).To(gomega.Equal(2))
		gomega.Expect(sc.CurrentUser).To(gomega.Equal("admin"))
		gomega.Expect(sc.LastResponse()).To(gomega.BeNil())
		gomega.Expect(sc.Records()).To(gomega.BeEmpty())
	})

	ginkgo.It("should forget everything on reset", func() {
		sc := ocs.NewScenarioContext(1, "admin")
		sc.APIVersion = 2
		sc.CurrentUser = "Alice"
		sc.StepRef = "ref"
		sc.SetResponse(xmlResponse(200, 100, "OK"))
		sc.Record(xmlResponse(200, 100, "OK"))

		sc.Reset()

		gomega.Expect(sc.APIVersion).To(gomega.Equal(1))
		gomega.Expect(sc.CurrentUser).To(gomega.Equal("admin"))
		gomega.Expect(sc.StepRef).To(gomega.BeEmpty())
		gomega.Expect(sc.LastResponse()).To(gomega.BeNil())
		gomega.Expect(sc.HTTPStatuses()).To(gomega.BeEmpty())
	})

	ginkgo.It("should keep one record per response", func() {
		sc := ocs.NewScenarioContext(1, "admin")
		sc.Record(xmlResponse(200, 100, "OK"))
		sc.Record(&ocs.Response{StatusCode: 401})

		gomega.Expect(sc.HTTPStatuses()).To(gomega.Equal([]int{200, 401}))
		gomega.Expect(sc.OCSStatuses()).To(gomega.Equal([]int{100}))
		gomega.Expect(sc.Records()).To(gomega.HaveLen(2))
	})
})
