package steps

import (
	"context"
	"strings"

	"ocs-acceptance/internal/ocs"

	"github.com/cucumber/godog"
)

func (fc *FeatureContext) userRequestsEndpointsUsingPassword(ctx context.Context, user, method, password, subject string, table *godog.Table) error {
	return fc.batch.RunBatch(ctx, ocs.BatchRequest{
		User:             user,
		Password:         &password,
		Method:           method,
		Rows:             tableOf(table),
		Subject:          subject,
		AllowDestination: true,
	})
}

func (fc *FeatureContext) userRequestsEndpointsWithBodyUsingPassword(ctx context.Context, user, method, body, password, subject string, table *godog.Table) error {
	return fc.batch.RunBatch(ctx, ocs.BatchRequest{
		User:             user,
		Password:         &password,
		Method:           method,
		Rows:             tableOf(table),
		Body:             ocs.BodyOf(body),
		Subject:          subject,
		AllowDestination: true,
	})
}

// userRequestsEndpointsWithBody sends COPY and MOVE requests with the
// default destination unless the table names one per row.
func (fc *FeatureContext) userRequestsEndpointsWithBody(ctx context.Context, user, method, body, subject string, table *godog.Table) error {
	return fc.batch.RunBatch(ctx, ocs.BatchRequest{
		User:    user,
		Method:  method,
		Rows:    tableOf(table),
		Body:    ocs.BodyOf(body),
		Subject: subject,
	})
}

func (fc *FeatureContext) userRequestsEndpointsWithProperty(ctx context.Context, user, method, property, subject string, table *godog.Table) error {
	return fc.batch.RunBatch(ctx, ocs.BatchRequest{
		User:    user,
		Method:  strings.ToUpper(method),
		Rows:    tableOf(table),
		Body:    ocs.PropertyBody(method, property),
		Subject: subject,
	})
}

// userRequestsEndpointsUsingPasswordOfUser authenticates as one user with the
// password of another, who is also the subject of the endpoints.
func (fc *FeatureContext) userRequestsEndpointsUsingPasswordOfUser(ctx context.Context, user, method, body, owner string, table *godog.Table) error {
	password := fc.users.PasswordFor(owner)
	return fc.batch.RunBatch(ctx, ocs.BatchRequest{
		User:     user,
		Password: &password,
		Method:   method,
		Rows:     tableOf(table),
		Body:     ocs.BodyOf(body),
		Subject:  owner,
	})
}
