package ocs_test

import (
	"errors"

	"ocs-acceptance/internal/ocs"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Assertions", func() {
	ginkgo.Context("AssertSuccess", func() {
		ginkgo.DescribeTable("should check HTTP and OCS codes for the API version",
			func(apiVersion, httpStatus, ocsStatus int, succeeds bool) {
				err := ocs.AssertSuccess(xmlResponse(httpStatus, ocsStatus, ""), apiVersion, "")
				if succeeds {
					gomega.Expect(err).NotTo(gomega.HaveOccurred())
				} else {
					gomega.Expect(err).To(gomega.HaveOccurred())
				}
			},
			ginkgo.Entry("v1 with OCS 100", 1, 200, 100, true),
			ginkgo.Entry("v1 with OCS 150", 1, 200, 150, false),
			ginkgo.Entry("v1 with OCS 200", 1, 200, 200, false),
			ginkgo.Entry("v2 with OCS 200", 2, 200, 200, true),
			ginkgo.Entry("v2 with OCS 100", 2, 200, 100, false),
			ginkgo.Entry("v2 with HTTP 404", 2, 404, 200, false),
		)

		ginkgo.It("should fail on HTTP 404 whatever the OCS code", func() {
			err := ocs.AssertSuccess(xmlResponse(404, 200, ""), 2, "")

			var assertErr *ocs.AssertionError
			gomega.Expect(errors.As(err, &assertErr)).To(gomega.BeTrue())
			gomega.Expect(assertErr.Actual).To(gomega.Equal("404"))
		})
	})

	ginkgo.Context("AssertOCSStatus", func() {
		ginkgo.It("should describe a single expected value", func() {
			err := ocs.AssertOCSStatus(xmlResponse(200, 102, ""), ocs.Single("100"), "")

			gomega.Expect(err).To(gomega.MatchError("OCS status code is not the expected value 100 got 102"))
		})

		ginkgo.It("should accept any value of a set", func() {
			resp := xmlResponse(401, 997, "")

			gomega.Expect(ocs.AssertOCSStatus(resp, ocs.OneOf("997", "401"), "")).To(gomega.Succeed())
			gomega.Expect(ocs.AssertOCSStatus(resp, ocs.OneOf("100", "200"), "")).
				To(gomega.MatchError("OCS status code is not any of the expected values 100,200 got 997"))
		})

		ginkgo.It("should use a caller supplied message", func() {
			err := ocs.AssertOCSStatus(xmlResponse(200, 102, ""), ocs.Single("100"), "user was not created")

			gomega.Expect(err).To(gomega.MatchError("user was not created"))
		})

		ginkgo.It("should fail with a missing field error when there is no status code", func() {
			err := ocs.AssertOCSStatus(&ocs.Response{StatusCode: 500, Body: []byte("Internal Server Error")}, ocs.Single("100"), "")

			var missing *ocs.MissingFieldError
			gomega.Expect(errors.As(err, &missing)).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("AssertHTTPStatus", func() {
		ginkgo.It("should compare the HTTP status code", func() {
			resp := xmlResponse(201, 100, "")

			gomega.Expect(ocs.AssertHTTPStatus(resp, ocs.Single("201"), "")).To(gomega.Succeed())
			gomega.Expect(ocs.AssertHTTPStatus(resp, ocs.OneOf("200", "204"), "")).To(gomega.HaveOccurred())
		})

		ginkgo.It("should fail without a response", func() {
			gomega.Expect(ocs.AssertHTTPStatus(nil, ocs.Single("200"), "")).To(gomega.HaveOccurred())
			gomega.Expect(ocs.AssertHTTPSuccess(nil)).To(gomega.HaveOccurred())
		})

		ginkgo.It("should accept any 2xx as success", func() {
			gomega.Expect(ocs.AssertHTTPSuccess(&ocs.Response{StatusCode: 207})).To(gomega.Succeed())
			gomega.Expect(ocs.AssertHTTPSuccess(&ocs.Response{StatusCode: 302})).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Context("AssertMessage", func() {
		table := ocs.MessageTable{"File locked": {"de": "Datei gesperrt"}}

		ginkgo.It("should translate the expected message", func() {
			resp := xmlResponse(423, 423, "Datei gesperrt")

			gomega.Expect(ocs.AssertMessage(resp, "File locked", "de", table)).To(gomega.Succeed())
		})

		ginkgo.It("should fall back to the literal message", func() {
			resp := xmlResponse(423, 423, "File locked")

			gomega.Expect(ocs.AssertMessage(resp, "File locked", "fr", table)).To(gomega.Succeed())
			gomega.Expect(ocs.AssertMessage(resp, "File locked", "", nil)).To(gomega.Succeed())
		})

		ginkgo.It("should report the received message", func() {
			err := ocs.AssertMessage(xmlResponse(200, 100, "OK"), "File locked", "", table)

			var assertErr *ocs.AssertionError
			gomega.Expect(errors.As(err, &assertErr)).To(gomega.BeTrue())
			gomega.Expect(assertErr.Actual).To(gomega.Equal("OK"))
			gomega.Expect(assertErr.Expected).To(gomega.Equal("File locked"))
		})
	})
})
