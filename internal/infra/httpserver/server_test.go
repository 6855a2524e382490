package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"ocs-acceptance/internal/infra/telemetry"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type echoController struct{}

func (echoController) AddRoutes(router *http.ServeMux) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

var _ = ginkgo.Describe("HTTPServer", func() {
	var (
		tp       *trace.TracerProvider
		recorder *tracetest.SpanRecorder
	)

	ginkgo.BeforeEach(func() {
		recorder = tracetest.NewSpanRecorder()
		tp = trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
		otel.SetTracerProvider(tp)
	})

	ginkgo.AfterEach(func() {
		_ = tp.Shutdown(context.Background())
	})

	ginkgo.Context("NewServer", func() {
		ginkgo.It("should serve health checks next to the controllers", func() {
			handler := NewServer(":0", echoController{}).Handler()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"status":"success"`))

			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("MKCOL", "/remote.php/dav/files/alice/new", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusTeapot))
		})

		ginkgo.It("should answer CORS preflight requests for WebDAV verbs", func() {
			handler := NewServer(":0", echoController{}).Handler()

			req := httptest.NewRequest(http.MethodOptions, "/remote.php/dav/files/alice/a.txt", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", "MOVE")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(gomega.Equal("MOVE"))
		})
	})

	ginkgo.Context("TracingMiddleware", func() {
		ginkgo.It("should record a server span tagged with the request ID", func() {
			handler := createTracingMiddleware()(createRequestIDMiddleware()(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gomega.Expect(GetSpanFromContext(r).SpanContext().HasSpanID()).To(gomega.BeTrue())
					w.WriteHeader(http.StatusCreated)
				}),
			))

			req := httptest.NewRequest(http.MethodPost, "/ocs/v1.php/cloud/users", nil)
			req.Header.Set("X-Request-ID", "features/users.feature-12")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			spans := recorder.Ended()
			gomega.Expect(spans).To(gomega.HaveLen(1))
			gomega.Expect(spans[0].Name()).To(gomega.Equal("POST /ocs/v1.php/cloud/users"))
			gomega.Expect(spans[0].Attributes()).To(gomega.ContainElements(
				attribute.String("request.id", "features/users.feature-12"),
				attribute.Int("http.status_code", http.StatusCreated),
			))
		})

		ginkgo.It("should continue the trace of the calling client", func() {
			otel.SetTextMapPropagator(telemetry.Propagator())
			defer otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())

			handler := createTracingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusMultiStatus)
			}))

			req := httptest.NewRequest("PROPFIND", "/remote.php/dav/files/alice/a.txt", nil)
			req.Header.Set("X-B3-TraceId", "4bf92f3577b34da6a3ce929d0e0e4736")
			req.Header.Set("X-B3-SpanId", "00f067aa0ba902b7")
			req.Header.Set("X-B3-Sampled", "1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			spans := recorder.Ended()
			gomega.Expect(spans).To(gomega.HaveLen(1))
			gomega.Expect(spans[0].SpanContext().TraceID().String()).To(gomega.Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
			gomega.Expect(spans[0].Parent().SpanID().String()).To(gomega.Equal("00f067aa0ba902b7"))
			gomega.Expect(rec.Header().Get("traceparent")).To(gomega.ContainSubstring("4bf92f3577b34da6a3ce929d0e0e4736"))
		})

		ginkgo.It("should return a no-op span outside of the middleware", func() {
			span := GetSpanFromContext(httptest.NewRequest(http.MethodGet, "/test", nil))

			gomega.Expect(span).NotTo(gomega.BeNil())
			gomega.Expect(span.SpanContext().IsValid()).To(gomega.BeFalse())
		})
	})
})
