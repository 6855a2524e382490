package ocs

import (
	"strconv"
)

// StatusRecord holds the status codes of one batch request. OCSStatus is nil
// when the response carried no OCS status code.
type StatusRecord struct {
	HTTPStatus int
	OCSStatus  *int
}

// ScenarioContext is the state shared by the steps of one scenario.
type ScenarioContext struct {
	APIVersion  int
	CurrentUser string
	// StepRef identifies the running step in request correlation headers.
	StepRef string

	defaultAPIVersion int
	defaultUser       string
	lastResponse      *Response
	records           []StatusRecord
}

func NewScenarioContext(apiVersion int, defaultUser string) *ScenarioContext {
	sc := &ScenarioContext{defaultAPIVersion: apiVersion, defaultUser: defaultUser}
	sc.Reset()
	return sc
}

// Reset restores the state a scenario starts with.
func (sc *ScenarioContext) Reset() {
	sc.APIVersion = sc.defaultAPIVersion
	sc.CurrentUser = sc.defaultUser
	sc.StepRef = ""
	sc.lastResponse = nil
	sc.records = nil
}

// ResetStatuses clears the status records before a batch.
func (sc *ScenarioContext) ResetStatuses() {
	sc.records = nil
}

func (sc *ScenarioContext) SetResponse(resp *Response) {
	sc.lastResponse = resp
}

func (sc *ScenarioContext) LastResponse() *Response {
	return sc.lastResponse
}

// Record appends the status codes of resp.
func (sc *ScenarioContext) Record(resp *Response) {
	rec := StatusRecord{HTTPStatus: resp.StatusCode}
	if code, err := ExtractStatusCode(resp); err == nil {
		if n, err := strconv.Atoi(code); err == nil {
			rec.OCSStatus = &n
		}
	}
	sc.records = append(sc.records, rec)
}

func (sc *ScenarioContext) Records() []StatusRecord {
	return append([]StatusRecord(nil), sc.records...)
}

func (sc *ScenarioContext) HTTPStatuses() []int {
	out := make([]int, 0, len(sc.records))
	for _, r := range sc.records {
		out = append(out, r.HTTPStatus)
	}
	return out
}

// OCSStatuses returns the OCS status codes of the records that had one.
func (sc *ScenarioContext) OCSStatuses() []int {
	var out []int
	for _, r := range sc.records {
		if r.OCSStatus != nil {
			out = append(out, *r.OCSStatus)
		}
	}
	return out
}
