package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ocs-acceptance/internal/ocs"

	"github.com/cucumber/godog"
)

var errNoBatch = errors.New("no requests have been sent to a list of endpoints")

func (fc *FeatureContext) theOCSStatusCodeShouldBe(code string) error {
	return ocs.AssertOCSStatus(fc.scenario.LastResponse(), ocs.Single(code), "")
}

func (fc *FeatureContext) theOCSStatusCodeShouldBeOr(code1, code2 string) error {
	return ocs.AssertOCSStatus(fc.scenario.LastResponse(), ocs.OneOf(code1, code2), "")
}

func (fc *FeatureContext) theHTTPStatusCodeShouldBe(code string) error {
	return ocs.AssertHTTPStatus(fc.scenario.LastResponse(), ocs.Single(code), "")
}

func (fc *FeatureContext) theHTTPStatusCodeShouldBeOr(code1, code2 string) error {
	return ocs.AssertHTTPStatus(fc.scenario.LastResponse(), ocs.OneOf(code1, code2), "")
}

func (fc *FeatureContext) theOCSResponseShouldIndicateSuccess() error {
	return ocs.AssertSuccess(fc.scenario.LastResponse(), fc.scenario.APIVersion, "")
}

func (fc *FeatureContext) theHTTPStatusCodeOfAllEndpointsShouldBe(code string) error {
	records := fc.scenario.Records()
	if len(records) == 0 {
		return errNoBatch
	}
	for i, rec := range records {
		msg := fmt.Sprintf("HTTP status code of request %d is not the expected value %s got %d", i+1, code, rec.HTTPStatus)
		if err := ocs.AssertStatus("HTTP", strconv.Itoa(rec.HTTPStatus), ocs.Single(code), msg); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FeatureContext) theOCSStatusCodeOfAllEndpointsShouldBe(code string) error {
	records := fc.scenario.Records()
	if len(records) == 0 {
		return errNoBatch
	}
	for i, rec := range records {
		if rec.OCSStatus == nil {
			return fmt.Errorf("request %d: %w", i+1, &ocs.MissingFieldError{Field: "statuscode"})
		}
		actual := strconv.Itoa(*rec.OCSStatus)
		msg := fmt.Sprintf("OCS status code of request %d is not the expected value %s got %s", i+1, code, actual)
		if err := ocs.AssertStatus("OCS", actual, ocs.Single(code), msg); err != nil {
			return err
		}
	}
	return nil
}

func (fc *FeatureContext) theOCSStatusMessageShouldBe(ctx context.Context, message string) error {
	return fc.assertMessage(ctx, message, "")
}

func (fc *FeatureContext) theOCSStatusMessageShouldBeInLanguage(ctx context.Context, message, language string) error {
	return fc.assertMessage(ctx, message, language)
}

func (fc *FeatureContext) assertMessage(ctx context.Context, message, language string) error {
	language = fc.language(language)
	var table ocs.MessageTable
	if language != "" {
		var err error
		if table, err = fc.messageTable(ctx); err != nil {
			return err
		}
	}
	return ocs.AssertMessage(fc.scenario.LastResponse(), message, language, table)
}

// theOCSStatusMessageAboutUserShouldBe expects messages to name users in
// lower case.
func (fc *FeatureContext) theOCSStatusMessageAboutUserShouldBe(user, message string) error {
	subject := strings.ToLower(fc.users.ActualUsername(user))
	want := ocs.Substituter{BaseURL: fc.dispatcher.BaseURL()}.Substitute(message, subject)
	return ocs.AssertText(want, ocs.ExtractMessage(fc.scenario.LastResponse()))
}

func (fc *FeatureContext) theOCSStatusMessageShouldBeDocString(doc *godog.DocString) error {
	var want string
	if doc != nil {
		want = doc.Content
	}
	return ocs.AssertText(want, ocs.ExtractMessage(fc.scenario.LastResponse()))
}
