package driver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ocs-acceptance/internal/ocs"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIDriver sends requests to the server under test. It implements
// ocs.Transport.
type APIDriver struct {
	client  *http.Client
	metrics *Metrics
}

type Option func(*APIDriver)

// WithMetrics records every request on m.
func WithMetrics(m *Metrics) Option {
	return func(d *APIDriver) {
		d.metrics = m
	}
}

// WithHTTPClient replaces the default client. The client's transport is used
// as is.
func WithHTTPClient(client *http.Client) Option {
	return func(d *APIDriver) {
		d.client = client
	}
}

func NewAPIDriver(timeout time.Duration, opts ...Option) *APIDriver {
	d := &APIDriver{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			// WebDAV redirects must be asserted on, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *APIDriver) Do(ctx context.Context, r *ocs.Request) (*ocs.Response, error) {
	var body, contentType string
	if r.Body != nil {
		body, contentType = r.Body.Encode()
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Credential != nil {
		req.SetBasicAuth(r.Credential.Username, r.Credential.Password)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		d.observe(r.Method, "error", start)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		d.observe(r.Method, "error", start)
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	d.observe(r.Method, strconv.Itoa(resp.StatusCode), start)

	return &ocs.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

func (d *APIDriver) observe(method, code string, start time.Time) {
	if d.metrics == nil {
		return
	}
	d.metrics.requests.WithLabelValues(method, code).Inc()
	d.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Metrics counts the requests sent by a test run.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocs_acceptance",
			Name:      "requests_total",
			Help:      "Requests sent to the server under test by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ocs_acceptance",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of requests sent to the server under test.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Requests returns the counter for method and code.
func (m *Metrics) Requests(method, code string) prometheus.Counter {
	return m.requests.WithLabelValues(method, code)
}
