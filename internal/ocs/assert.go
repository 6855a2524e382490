package ocs

import (
	"fmt"
	"strconv"
	"strings"
)

// Expectation is either a single acceptable value or a set of them.
type Expectation struct {
	values []string
}

func Single(value string) Expectation {
	return Expectation{values: []string{value}}
}

func OneOf(values ...string) Expectation {
	return Expectation{values: values}
}

func (e Expectation) IsSet() bool {
	return len(e.values) > 1
}

func (e Expectation) Matches(actual string) bool {
	for _, v := range e.values {
		if strings.TrimSpace(v) == strings.TrimSpace(actual) {
			return true
		}
	}
	return false
}

func (e Expectation) String() string {
	return strings.Join(e.values, ",")
}

// AssertStatus compares a status code with the expectation. kind names the
// code in the default message ("OCS", "HTTP").
func AssertStatus(kind, actual string, expected Expectation, message string) error {
	if expected.Matches(actual) {
		return nil
	}
	if message == "" {
		if expected.IsSet() {
			message = fmt.Sprintf("%s status code is not any of the expected values %s got %s", kind, expected, actual)
		} else {
			message = fmt.Sprintf("%s status code is not the expected value %s got %s", kind, expected, actual)
		}
	}
	return &AssertionError{Expected: expected.String(), Actual: actual, Message: message}
}

// AssertOCSStatus checks the OCS status code carried by resp.
func AssertOCSStatus(resp *Response, expected Expectation, message string) error {
	actual, err := ExtractStatusCode(resp)
	if err != nil {
		return err
	}
	return AssertStatus("OCS", actual, expected, message)
}

// AssertHTTPStatus checks the HTTP status code of resp.
func AssertHTTPStatus(resp *Response, expected Expectation, message string) error {
	if resp == nil {
		return fmt.Errorf("no response has been received")
	}
	return AssertStatus("HTTP", strconv.Itoa(resp.StatusCode), expected, message)
}

// AssertHTTPSuccess checks that resp has a 2xx status.
func AssertHTTPSuccess(resp *Response) error {
	if resp == nil {
		return fmt.Errorf("no response has been received")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AssertionError{
			Expected: "2xx",
			Actual:   strconv.Itoa(resp.StatusCode),
			Message:  fmt.Sprintf("HTTP status code %d is not a success status code", resp.StatusCode),
		}
	}
	return nil
}

// SuccessStatus is the OCS status code for a successful request.
func SuccessStatus(apiVersion int) string {
	if apiVersion == 1 {
		return "100"
	}
	return "200"
}

// AssertSuccess checks that both the HTTP and the OCS status codes report
// success for the given OCS API version.
func AssertSuccess(resp *Response, apiVersion int, message string) error {
	if err := AssertHTTPStatus(resp, Single("200"), message); err != nil {
		return err
	}
	return AssertOCSStatus(resp, Single(SuccessStatus(apiVersion)), message)
}

// AssertMessage checks the OCS status message of resp. With a language, the
// expected text is first translated through table.
func AssertMessage(resp *Response, expected, language string, table MessageTable) error {
	want := table.Translate(expected, language)
	got := ExtractMessage(resp)
	return AssertText(want, got)
}

// AssertText compares an expected OCS message with the received one.
func AssertText(want, got string) error {
	if want == got {
		return nil
	}
	return &AssertionError{
		Expected: want,
		Actual:   got,
		Message:  fmt.Sprintf("Unexpected OCS status message :%q in response, expected %q", got, want),
	}
}
