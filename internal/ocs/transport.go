package ocs

import (
	"context"
)

// Request is a single HTTP request. Credential is nil for unauthenticated
// requests.
type Request struct {
	Method     string
	URL        string
	Headers    map[string]string
	Body       Body
	Credential *Credential
}

//go:generate mockgen -source=transport.go -destination=../../test/unit/doubles/ocs/transport_mock.go -package=ocs -mock_names=Transport=MockTransport
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
