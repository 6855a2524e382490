package steps

import (
	"context"
	"fmt"
	"sync"

	"ocs-acceptance/cmd/config"
	"ocs-acceptance/internal/infra/cache"
	"ocs-acceptance/internal/logger"
	"ocs-acceptance/internal/ocs"

	"github.com/cucumber/godog"
)

type FeatureContext struct {
	scenario   *ocs.ScenarioContext
	users      *ocs.Users
	dispatcher *ocs.Dispatcher
	batch      *ocs.BatchRunner
	messages   *ocs.MessageLoader
	fixtures   *cache.RistrettoCache
	registry   *Registry
	log        logger.Logger
	closeOnce  sync.Once

	messagesFixture string
	defaultLanguage string
	defaultPassword string
	scenarioURI     string
	createdUsers    []string
	onReset         []func()
}

func NewFeatureContext(cfg config.AppConfig, transport ocs.Transport, log logger.Logger) (*FeatureContext, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	fixtures, err := cache.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating fixture cache: %w", err)
	}

	admin := ocs.Credential{Username: cfg.Admin.Username, Password: cfg.Admin.Password}
	users := ocs.NewUsers(admin, cfg.Users.DefaultPassword, cfg.Users.Aliases)
	scenario := ocs.NewScenarioContext(cfg.OCS.APIVersion, admin.Username)
	dispatcher := ocs.NewDispatcher(cfg.Server.BaseURL, transport, users, scenario, log)

	fc := &FeatureContext{
		scenario:        scenario,
		users:           users,
		dispatcher:      dispatcher,
		batch:           ocs.NewBatchRunner(dispatcher, users, scenario),
		messages:        ocs.NewMessageLoader(fixtures),
		fixtures:        fixtures,
		log:             log,
		messagesFixture: cfg.Fixtures.MultiLanguageErrors,
		defaultLanguage: cfg.Language.Default,
		defaultPassword: cfg.Users.DefaultPassword,
	}
	fc.registry = NewRegistry(fc.Definitions())
	return fc, nil
}

// Close stops the fixture cache. The context must not run scenarios
// afterwards.
func (fc *FeatureContext) Close() {
	fc.closeOnce.Do(fc.fixtures.Close)
}

// OnReset adds a function run at the start of every scenario.
func (fc *FeatureContext) OnReset(fn func()) {
	fc.onReset = append(fc.onReset, fn)
}

func (fc *FeatureContext) Registry() *Registry {
	return fc.registry
}

func (fc *FeatureContext) RegisterSteps(ctx *godog.ScenarioContext) {
	fc.registry.Register(ctx)

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.reset()
		fc.scenarioURI = sc.Uri
		return ctx, nil
	})

	ctx.StepContext().Before(func(ctx context.Context, st *godog.Step) (context.Context, error) {
		fc.scenario.StepRef = fmt.Sprintf("%s-%s", fc.scenarioURI, st.Id)
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		fc.deleteCreatedUsers(ctx)
		return ctx, err
	})
}

func (fc *FeatureContext) Definitions() []StepDefinition {
	return []StepDefinition{
		// Single OCS requests
		{"When", `^the user sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)"$`, fc.theUserSendsToOCSEndpoint},
		{"Given", `^the user has sent HTTP method "([^"]*)" to OCS API endpoint "([^"]*)"$`, fc.theUserHasSentToOCSEndpoint},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)"$`, fc.userSendsToOCSEndpoint},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" using password "([^"]*)"$`, fc.userSendsToOCSEndpointUsingPassword},
		{"Given", `^user "([^"]*)" has sent HTTP method "([^"]*)" to API endpoint "([^"]*)"$`, fc.userHasSentToOCSEndpoint},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.userSendsToOCSEndpointWithBody},
		{"Given", `^user "([^"]*)" has sent HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.userHasSentToOCSEndpointWithBody},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body using password "([^"]*)"$`, fc.userSendsToOCSEndpointWithBodyUsingPassword},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with headers$`, fc.userSendsToOCSEndpointWithHeaders},
		{"When", `^user "([^"]*)" sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with headers using password "([^"]*)"$`, fc.userSendsToOCSEndpointWithHeadersUsingPassword},
		{"When", `^the user sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.theUserSendsToOCSEndpointWithBody},
		{"Given", `^the user has sent HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.theUserHasSentToOCSEndpointWithBody},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)"$`, fc.theAdministratorSendsToOCSEndpoint},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" using password "([^"]*)"$`, fc.theAdministratorSendsToOCSEndpointUsingPassword},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.theAdministratorSendsToOCSEndpointWithBody},
		{"Given", `^the administrator has sent HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body$`, fc.theAdministratorHasSentToOCSEndpointWithBody},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with body using password "([^"]*)"$`, fc.theAdministratorSendsToOCSEndpointWithBodyUsingPassword},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with headers$`, fc.theAdministratorSendsToOCSEndpointWithHeaders},
		{"When", `^the administrator sends HTTP method "([^"]*)" to OCS API endpoint "([^"]*)" with headers using password "([^"]*)"$`, fc.theAdministratorSendsToOCSEndpointWithHeadersUsingPassword},

		// Batches of endpoints
		{"When", `^user "([^"]*)" requests these endpoints with "([^"]*)" using password "([^"]*)" about user "([^"]*)"$`, fc.userRequestsEndpointsUsingPassword},
		{"When", `^user "([^"]*)" requests these endpoints with "([^"]*)" including body "([^"]*)" using password "([^"]*)" about user "([^"]*)"$`, fc.userRequestsEndpointsWithBodyUsingPassword},
		{"When", `^user "([^"]*)" requests these endpoints with "([^"]*)" including body "([^"]*)" about user "([^"]*)"$`, fc.userRequestsEndpointsWithBody},
		{"When", `^user "([^"]*)" requests these endpoints with "([^"]*)" to (?:get|set) property "([^"]*)" about user "([^"]*)"$`, fc.userRequestsEndpointsWithProperty},
		{"When", `^user "([^"]*)" requests these endpoints with "([^"]*)" including body "([^"]*)" using the password of user "([^"]*)"$`, fc.userRequestsEndpointsUsingPasswordOfUser},

		// Status assertions
		{"Then", `^the OCS status code should be "([^"]*)"$`, fc.theOCSStatusCodeShouldBe},
		{"Then", `^the OCS status code should be "([^"]*)" or "([^"]*)"$`, fc.theOCSStatusCodeShouldBeOr},
		{"Then", `^the HTTP status code should be "([^"]*)"$`, fc.theHTTPStatusCodeShouldBe},
		{"Then", `^the HTTP status code should be "([^"]*)" or "([^"]*)"$`, fc.theHTTPStatusCodeShouldBeOr},
		{"Then", `^the OCS response should indicate success$`, fc.theOCSResponseShouldIndicateSuccess},
		{"Then", `^the HTTP status code of responses on all endpoints should be "([^"]*)"$`, fc.theHTTPStatusCodeOfAllEndpointsShouldBe},
		{"Then", `^the OCS status code of responses on all endpoints should be "([^"]*)"$`, fc.theOCSStatusCodeOfAllEndpointsShouldBe},

		// Message assertions
		{"Then", `^the OCS status message should be "([^"]*)"$`, fc.theOCSStatusMessageShouldBe},
		{"Then", `^the OCS status message should be "([^"]*)" in language "([^"]*)"$`, fc.theOCSStatusMessageShouldBeInLanguage},
		{"Then", `^the OCS status message about user "([^"]*)" should be "([^"]*)"$`, fc.theOCSStatusMessageAboutUserShouldBe},
		{"Then", `^the OCS status message should be:$`, fc.theOCSStatusMessageShouldBeDocString},

		// Scenario context
		{"Given", `^using OCS API version "([^"]*)"$`, fc.usingOCSAPIVersion},
		{"Given", `^as user "([^"]*)"$`, fc.asUser},
		{"Given", `^user "([^"]*)" has been created with default attributes$`, fc.userHasBeenCreatedWithDefaultAttributes},
		{"Given", `^wait for (.*)$`, fc.waitForDuration},
	}
}

func (fc *FeatureContext) reset() {
	fc.scenario.Reset()
	fc.users.Forget()
	fc.createdUsers = nil
	for _, fn := range fc.onReset {
		fn()
	}
}

func (fc *FeatureContext) language(language string) string {
	if language != "" {
		return language
	}
	return fc.defaultLanguage
}

func (fc *FeatureContext) messageTable(ctx context.Context) (ocs.MessageTable, error) {
	if fc.messagesFixture == "" {
		return nil, nil
	}
	return fc.messages.Load(ctx, fc.messagesFixture)
}

func tableOf(t *godog.Table) ocs.Table {
	if t == nil {
		return ocs.Table{}
	}
	cells := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			values = append(values, cell.Value)
		}
		cells = append(cells, values)
	}
	return ocs.NewTable(cells)
}
