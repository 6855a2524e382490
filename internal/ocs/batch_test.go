package ocs_test

import (
	"context"
	"errors"
	"net/http"

	"ocs-acceptance/internal/logger"
	"ocs-acceptance/internal/ocs"
	mockocs "ocs-acceptance/test/unit/doubles/ocs"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("BatchRunner", func() {
	const baseURL = "http://ocs.local/owncloud"

	var (
		ctrl      *gomock.Controller
		transport *mockocs.MockTransport
		scenario  *ocs.ScenarioContext
		users     *ocs.Users
		runner    *ocs.BatchRunner
		sent      []*ocs.Request
		ctx       context.Context
	)

	record := func(statuses ...int) {
		calls := make([]any, 0, len(statuses))
		for _, status := range statuses {
			status := status
			calls = append(calls, transport.EXPECT().Do(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req *ocs.Request) (*ocs.Response, error) {
					sent = append(sent, req)
					return &ocs.Response{StatusCode: status}, nil
				}))
		}
		gomock.InOrder(calls...)
	}

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		transport = mockocs.NewMockTransport(ctrl)
		scenario = ocs.NewScenarioContext(1, "admin")
		users = ocs.NewUsers(ocs.Credential{Username: "admin", Password: "admin"}, "123456", nil)
		dispatcher := ocs.NewDispatcher(baseURL, transport, users, scenario, logger.NewNopLogger())
		runner = ocs.NewBatchRunner(dispatcher, users, scenario)
		sent = nil
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("RunBatch", func() {
		ginkgo.It("should reject a table without an endpoint column before sending anything", func() {
			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:   "alice",
				Method: http.MethodGet,
				Rows:   ocs.NewTable([][]string{{"url"}, {"/users/%me%"}}),
			})

			var schemaErr *ocs.SchemaValidationError
			gomega.Expect(errors.As(err, &schemaErr)).To(gomega.BeTrue())
			gomega.Expect(schemaErr.Missing).To(gomega.Equal([]string{"endpoint"}))
			gomega.Expect(schemaErr.Unexpected).To(gomega.Equal([]string{"url"}))
			gomega.Expect(sent).To(gomega.BeEmpty())
		})

		ginkgo.It("should record one status per row in row order", func() {
			record(http.StatusOK, http.StatusNotFound, http.StatusForbidden)

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:    "alice",
				Method:  http.MethodGet,
				Rows:    ocs.NewTable([][]string{{"endpoint"}, {"/a"}, {"/b"}, {"/c"}}),
				Subject: "bob",
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(scenario.HTTPStatuses()).To(gomega.Equal([]int{200, 404, 403}))
			gomega.Expect(scenario.Records()).To(gomega.HaveLen(3))
		})

		ginkgo.It("should replace the records of an earlier batch", func() {
			record(http.StatusOK, http.StatusCreated)
			rows := ocs.NewTable([][]string{{"endpoint"}, {"/a"}})

			gomega.Expect(runner.RunBatch(ctx, ocs.BatchRequest{User: "alice", Method: "GET", Rows: rows})).To(gomega.Succeed())
			gomega.Expect(runner.RunBatch(ctx, ocs.BatchRequest{User: "alice", Method: "GET", Rows: rows})).To(gomega.Succeed())

			gomega.Expect(scenario.HTTPStatuses()).To(gomega.Equal([]int{201}))
		})

		ginkgo.It("should send per-row destinations relative to the base URL", func() {
			record(http.StatusCreated, http.StatusCreated)

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:   "alice",
				Method: ocs.MethodMove,
				Rows: ocs.NewTable([][]string{
					{"endpoint", "destination"},
					{"/users/%me%", ""},
					{"/groups/%me%", "/backup"},
				}),
				Subject:          "bob",
				AllowDestination: true,
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sent).To(gomega.HaveLen(2))
			gomega.Expect(sent[0].URL).To(gomega.Equal(baseURL + "/users/bob"))
			gomega.Expect(sent[0].Headers).NotTo(gomega.HaveKey(ocs.HeaderDestination))
			gomega.Expect(sent[1].URL).To(gomega.Equal(baseURL + "/groups/bob"))
			gomega.Expect(sent[1].Headers).To(gomega.HaveKeyWithValue(ocs.HeaderDestination, baseURL+"/backup"))
			gomega.Expect(sent[1].Method).To(gomega.Equal("MOVE"))
			gomega.Expect(scenario.HTTPStatuses()).To(gomega.Equal([]int{201, 201}))
		})

		ginkgo.It("should reject a destination column when the request does not allow one", func() {
			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:   "alice",
				Method: ocs.MethodMove,
				Rows: ocs.NewTable([][]string{
					{"endpoint", "destination"},
					{"/users/%me%", "/backup"},
				}),
				Subject: "bob",
			})

			var schemaErr *ocs.SchemaValidationError
			gomega.Expect(errors.As(err, &schemaErr)).To(gomega.BeTrue())
			gomega.Expect(schemaErr.Unexpected).To(gomega.Equal([]string{"destination"}))
			gomega.Expect(sent).To(gomega.BeEmpty())
		})

		ginkgo.It("should use the default destination when the table names none", func() {
			record(http.StatusCreated)

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:    "alice",
				Method:  ocs.MethodCopy,
				Rows:    ocs.NewTable([][]string{{"endpoint"}, {"/remote.php/dav/files/%username%/a.txt"}}),
				Body:    ocs.BodyOf("doesnotmatter"),
				Subject: "alice",
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sent[0].Headers).To(gomega.HaveKeyWithValue(ocs.HeaderDestination, ocs.DefaultDestination))
			gomega.Expect(sent[0].Body).To(gomega.Equal(ocs.RawBody("doesnotmatter")))
		})

		ginkgo.It("should authenticate with an explicit password", func() {
			record(http.StatusUnauthorized)
			password := "invalid"

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:     "alice",
				Password: &password,
				Method:   http.MethodGet,
				Rows:     ocs.NewTable([][]string{{"endpoint"}, {"/a"}}),
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(sent[0].Credential).To(gomega.Equal(&ocs.Credential{Username: "alice", Password: "invalid"}))
		})

		ginkgo.It("should keep OCS codes of rows that carry them", func() {
			transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(xmlResponse(200, 100, "OK"), nil)
			transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(&ocs.Response{StatusCode: 404}, nil)

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:   "admin",
				Method: http.MethodGet,
				Rows:   ocs.NewTable([][]string{{"endpoint"}, {"/a"}, {"/b"}}),
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			records := scenario.Records()
			gomega.Expect(records).To(gomega.HaveLen(2))
			gomega.Expect(*records[0].OCSStatus).To(gomega.Equal(100))
			gomega.Expect(records[1].OCSStatus).To(gomega.BeNil())
			gomega.Expect(scenario.OCSStatuses()).To(gomega.Equal([]int{100}))
		})

		ginkgo.It("should stop at the first transport error", func() {
			transport.EXPECT().Do(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

			err := runner.RunBatch(ctx, ocs.BatchRequest{
				User:   "alice",
				Method: http.MethodGet,
				Rows:   ocs.NewTable([][]string{{"endpoint"}, {"/a"}, {"/b"}}),
			})

			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("batch row 1")))
			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("connection refused")))
			gomega.Expect(scenario.Records()).To(gomega.BeEmpty())
		})
	})
})
