package ocs

import (
	"context"
	"fmt"
	"strings"

	"ocs-acceptance/internal/logger"

	"github.com/google/uuid"
)

const (
	HeaderOCSAPIRequest = "OCS-APIREQUEST"
	HeaderRequestID     = "X-Request-ID"
	HeaderDestination   = "Destination"
)

type sendOptions struct {
	password *string
}

type SendOption func(*sendOptions)

// WithPassword overrides the password found in the user registry.
func WithPassword(password string) SendOption {
	return func(o *sendOptions) {
		o.password = &password
	}
}

// Dispatcher builds and sends single authenticated requests and keeps the
// last response in the scenario context.
type Dispatcher struct {
	baseURL   string
	transport Transport
	users     IdentityResolver
	scenario  *ScenarioContext
	logger    logger.Logger
}

func NewDispatcher(baseURL string, transport Transport, users IdentityResolver, scenario *ScenarioContext, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Dispatcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		users:     users,
		scenario:  scenario,
		logger:    log,
	}
}

func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// OCSURL returns the full URL of an OCS endpoint for the scenario's API version.
func (d *Dispatcher) OCSURL(endpoint string) string {
	return fmt.Sprintf("%s/ocs/v%d.php%s", d.baseURL, d.scenario.APIVersion, ensureLeadingSlash(endpoint))
}

// SendOCS sends a request to an OCS API endpoint.
func (d *Dispatcher) SendOCS(ctx context.Context, user, method, endpoint string, body Body, headers map[string]string, opts ...SendOption) (*Response, error) {
	h := map[string]string{
		HeaderOCSAPIRequest: "true",
		HeaderRequestID:     d.correlationRef(),
	}
	for k, v := range headers {
		h[k] = v
	}
	return d.send(ctx, user, method, d.OCSURL(endpoint), body, h, opts...)
}

// Send sends a request to an endpoint relative to the base URL.
func (d *Dispatcher) Send(ctx context.Context, user, method, endpoint string, body Body, headers map[string]string, opts ...SendOption) (*Response, error) {
	h := map[string]string{HeaderRequestID: d.correlationRef()}
	for k, v := range headers {
		h[k] = v
	}
	return d.send(ctx, user, method, d.baseURL+ensureLeadingSlash(endpoint), body, h, opts...)
}

func (d *Dispatcher) send(ctx context.Context, user, method, url string, body Body, headers map[string]string, opts ...SendOption) (*Response, error) {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	if body == nil {
		body = EmptyBody{}
	}

	req := &Request{
		Method:     strings.ToUpper(method),
		URL:        url,
		Headers:    headers,
		Body:       body,
		Credential: CredentialFor(d.users, user, o.password),
	}

	d.logger.Debugw("sending request", "method", req.Method, "url", req.URL, "user", user)
	resp, err := d.transport.Do(ctx, req)
	if err != nil {
		d.logger.Warnw("request failed", "method", req.Method, "url", req.URL, "error", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	d.logger.Debugw("response received", "method", req.Method, "url", req.URL, "status", resp.StatusCode)

	d.scenario.SetResponse(resp)
	return resp, nil
}

func (d *Dispatcher) correlationRef() string {
	if d.scenario.StepRef != "" {
		return d.scenario.StepRef
	}
	return uuid.NewString()
}

func ensureLeadingSlash(endpoint string) string {
	if endpoint == "" || strings.HasPrefix(endpoint, "/") {
		return endpoint
	}
	return "/" + endpoint
}
