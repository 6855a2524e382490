package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ = ginkgo.Describe("Metrics", func() {
	ginkgo.Context("MetricsMiddleware", func() {
		ginkgo.It("should count requests with their status code", func() {
			reader := metric.NewManualReader()
			provider := metric.NewMeterProvider(metric.WithReader(reader))
			otel.SetMeterProvider(provider)
			ResetMetricsForTesting()

			handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusMultiStatus)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("PROPFIND", "/remote.php/dav/files/alice/a.txt", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusMultiStatus))
			gomega.Expect(IsMetricsInitialized()).To(gomega.BeTrue())

			var rm metricdata.ResourceMetrics
			gomega.Expect(reader.Collect(context.Background(), &rm)).To(gomega.Succeed())
			names := []string{}
			for _, sm := range rm.ScopeMetrics {
				for _, m := range sm.Metrics {
					names = append(names, m.Name)
				}
			}
			gomega.Expect(names).To(gomega.ContainElements(
				"ocs_twin.http.requests.total",
				"ocs_twin.http.request.duration.seconds",
			))
		})
	})

	ginkgo.DescribeTable("normalizeEndpoint",
		func(path, expected string) {
			gomega.Expect(normalizeEndpoint(path)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("root", "/", "root"),
		ginkgo.Entry("empty path", "", "root"),
		ginkgo.Entry("health check", "/healthz", "/healthz"),
		ginkgo.Entry("OCS collection", "/ocs/v1.php/cloud/users", "/ocs/v1.php/cloud/users"),
		ginkgo.Entry("OCS user", "/ocs/v2.php/cloud/users/alice", "/ocs/v2.php/cloud/users/_id"),
		ginkgo.Entry("DAV root", "/remote.php/dav/files/alice", "/remote.php/dav/files/_user"),
		ginkgo.Entry("DAV file", "/remote.php/dav/files/alice/PARENT/a.txt", "/remote.php/dav/files/_user"),
	)
})
