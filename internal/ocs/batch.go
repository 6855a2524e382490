package ocs

import (
	"context"
	"fmt"
)

// DefaultDestination is used for COPY and MOVE batches that name no
// destination.
const DefaultDestination = "/path/to/destination"

const (
	ColumnEndpoint    = "endpoint"
	ColumnDestination = "destination"
)

// BatchRequest describes a table of requests sent by one user about a
// subject user.
type BatchRequest struct {
	User     string
	Password *string
	Method   string
	Rows     Table
	Body     Body
	// Subject is the user substituted into endpoints and destinations.
	Subject string
	Headers map[string]string
	// AllowDestination accepts a destination column in Rows.
	AllowDestination bool
}

// BatchRunner sends one request per table row, in order, and records the
// status codes of each response.
type BatchRunner struct {
	dispatcher  *Dispatcher
	users       IdentityResolver
	scenario    *ScenarioContext
	substituter Substituter
}

func NewBatchRunner(dispatcher *Dispatcher, users IdentityResolver, scenario *ScenarioContext) *BatchRunner {
	return &BatchRunner{
		dispatcher:  dispatcher,
		users:       users,
		scenario:    scenario,
		substituter: Substituter{BaseURL: dispatcher.BaseURL()},
	}
}

func (b *BatchRunner) RunBatch(ctx context.Context, req BatchRequest) error {
	var optional []string
	if req.AllowDestination {
		optional = []string{ColumnDestination}
	}
	if err := req.Rows.VerifyColumns([]string{ColumnEndpoint}, optional); err != nil {
		return err
	}
	b.scenario.ResetStatuses()

	subject := b.users.ActualUsername(req.Subject)
	headers := copyHeaders(req.Headers)
	if needsDestination(req.Method) && !req.Rows.HasColumn(ColumnDestination) {
		if _, ok := headers[HeaderDestination]; !ok {
			headers[HeaderDestination] = DefaultDestination
		}
	}

	var opts []SendOption
	if req.Password != nil {
		opts = append(opts, WithPassword(*req.Password))
	}

	for i, row := range req.Rows.Hashes() {
		endpoint := b.substituter.Substitute(row[ColumnEndpoint], subject)
		rowHeaders := copyHeaders(headers)
		if dest := row[ColumnDestination]; dest != "" {
			rowHeaders[HeaderDestination] = b.substituter.Substitute(b.dispatcher.BaseURL()+dest, subject)
		}

		resp, err := b.dispatcher.Send(ctx, req.User, req.Method, endpoint, req.Body, rowHeaders, opts...)
		if err != nil {
			return fmt.Errorf("batch row %d: %w", i+1, err)
		}
		b.scenario.Record(resp)
	}
	return nil
}

func copyHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
