package steps

import (
	"context"
	"net/http"

	"ocs-acceptance/internal/ocs"

	"github.com/cucumber/godog"
)

func (fc *FeatureContext) sendOCS(ctx context.Context, user, method, endpoint string, body ocs.Body, headers map[string]string, password *string) error {
	var opts []ocs.SendOption
	if password != nil {
		opts = append(opts, ocs.WithPassword(*password))
	}
	_, err := fc.dispatcher.SendOCS(ctx, user, method, endpoint, body, headers, opts...)
	return err
}

func (fc *FeatureContext) sendAndExpectSuccess(ctx context.Context, user, method, endpoint string, body ocs.Body) error {
	if err := fc.sendOCS(ctx, user, method, endpoint, body, nil, nil); err != nil {
		return err
	}
	return ocs.AssertHTTPSuccess(fc.scenario.LastResponse())
}

func formBody(t *godog.Table) ocs.Body {
	if t == nil {
		return ocs.EmptyBody{}
	}
	return ocs.FormFields(tableOf(t).RowsHash())
}

func headersOf(t *godog.Table) (map[string]string, error) {
	table := tableOf(t)
	if err := table.VerifyColumns([]string{"header", "value"}, nil); err != nil {
		return nil, err
	}
	headers := make(map[string]string, len(table.Rows))
	for _, row := range table.Hashes() {
		headers[http.CanonicalHeaderKey(row["header"])] = row["value"]
	}
	return headers, nil
}

func (fc *FeatureContext) theUserSendsToOCSEndpoint(ctx context.Context, method, endpoint string) error {
	return fc.sendOCS(ctx, fc.scenario.CurrentUser, method, endpoint, nil, nil, nil)
}

func (fc *FeatureContext) theUserHasSentToOCSEndpoint(ctx context.Context, method, endpoint string) error {
	return fc.sendAndExpectSuccess(ctx, fc.scenario.CurrentUser, method, endpoint, nil)
}

func (fc *FeatureContext) userSendsToOCSEndpoint(ctx context.Context, user, method, endpoint string) error {
	return fc.sendOCS(ctx, user, method, endpoint, nil, nil, nil)
}

func (fc *FeatureContext) userSendsToOCSEndpointUsingPassword(ctx context.Context, user, method, endpoint, password string) error {
	return fc.sendOCS(ctx, user, method, endpoint, nil, nil, &password)
}

func (fc *FeatureContext) userHasSentToOCSEndpoint(ctx context.Context, user, method, endpoint string) error {
	return fc.sendAndExpectSuccess(ctx, user, method, endpoint, nil)
}

func (fc *FeatureContext) userSendsToOCSEndpointWithBody(ctx context.Context, user, method, endpoint string, body *godog.Table) error {
	return fc.sendOCS(ctx, user, method, endpoint, formBody(body), nil, nil)
}

func (fc *FeatureContext) userHasSentToOCSEndpointWithBody(ctx context.Context, user, method, endpoint string, body *godog.Table) error {
	return fc.sendAndExpectSuccess(ctx, user, method, endpoint, formBody(body))
}

func (fc *FeatureContext) userSendsToOCSEndpointWithBodyUsingPassword(ctx context.Context, user, method, endpoint, password string, body *godog.Table) error {
	return fc.sendOCS(ctx, user, method, endpoint, formBody(body), nil, &password)
}

func (fc *FeatureContext) userSendsToOCSEndpointWithHeaders(ctx context.Context, user, method, endpoint string, table *godog.Table) error {
	headers, err := headersOf(table)
	if err != nil {
		return err
	}
	return fc.sendOCS(ctx, user, method, endpoint, nil, headers, nil)
}

func (fc *FeatureContext) userSendsToOCSEndpointWithHeadersUsingPassword(ctx context.Context, user, method, endpoint, password string, table *godog.Table) error {
	headers, err := headersOf(table)
	if err != nil {
		return err
	}
	return fc.sendOCS(ctx, user, method, endpoint, nil, headers, &password)
}

func (fc *FeatureContext) theUserSendsToOCSEndpointWithBody(ctx context.Context, method, endpoint string, body *godog.Table) error {
	return fc.sendOCS(ctx, fc.scenario.CurrentUser, method, endpoint, formBody(body), nil, nil)
}

func (fc *FeatureContext) theUserHasSentToOCSEndpointWithBody(ctx context.Context, method, endpoint string, body *godog.Table) error {
	return fc.sendAndExpectSuccess(ctx, fc.scenario.CurrentUser, method, endpoint, formBody(body))
}

func (fc *FeatureContext) admin() string {
	return fc.users.Admin().Username
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpoint(ctx context.Context, method, endpoint string) error {
	return fc.sendOCS(ctx, fc.admin(), method, endpoint, nil, nil, nil)
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpointUsingPassword(ctx context.Context, method, endpoint, password string) error {
	return fc.sendOCS(ctx, fc.admin(), method, endpoint, nil, nil, &password)
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpointWithBody(ctx context.Context, method, endpoint string, body *godog.Table) error {
	return fc.sendOCS(ctx, fc.admin(), method, endpoint, formBody(body), nil, nil)
}

func (fc *FeatureContext) theAdministratorHasSentToOCSEndpointWithBody(ctx context.Context, method, endpoint string, body *godog.Table) error {
	return fc.sendAndExpectSuccess(ctx, fc.admin(), method, endpoint, formBody(body))
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpointWithBodyUsingPassword(ctx context.Context, method, endpoint, password string, body *godog.Table) error {
	return fc.sendOCS(ctx, fc.admin(), method, endpoint, formBody(body), nil, &password)
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpointWithHeaders(ctx context.Context, method, endpoint string, table *godog.Table) error {
	return fc.userSendsToOCSEndpointWithHeaders(ctx, fc.admin(), method, endpoint, table)
}

func (fc *FeatureContext) theAdministratorSendsToOCSEndpointWithHeadersUsingPassword(ctx context.Context, method, endpoint, password string, table *godog.Table) error {
	return fc.userSendsToOCSEndpointWithHeadersUsingPassword(ctx, fc.admin(), method, endpoint, password, table)
}
