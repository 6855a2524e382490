package ocs

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"

	"ocs-acceptance/internal/infra/utils"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Meta is the meta block of an OCS envelope.
type Meta struct {
	Status     string
	StatusCode *string
	Message    string
}

type xmlEnvelope struct {
	Meta []struct {
		Status     string  `xml:"status"`
		StatusCode *string `xml:"statuscode"`
		Message    string  `xml:"message"`
	} `xml:"meta"`
}

var errNotOCS = errors.New("payload is not an OCS envelope")

// ParseMeta reads the meta block of an XML or JSON OCS payload.
func ParseMeta(body []byte) (Meta, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Meta{}, errNotOCS
	}
	switch trimmed[0] {
	case '<':
		var env xmlEnvelope
		if err := xml.Unmarshal(trimmed, &env); err != nil {
			return Meta{}, err
		}
		if len(env.Meta) == 0 {
			return Meta{}, errNotOCS
		}
		m := env.Meta[0]
		return Meta{Status: m.Status, StatusCode: m.StatusCode, Message: m.Message}, nil
	case '{':
		var doc map[string]any
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return Meta{}, err
		}
		if _, ok := utils.ExtractValue(doc, "ocs.meta"); !ok {
			return Meta{}, errNotOCS
		}
		meta := Meta{
			Status:  utils.ExtractStringValue(doc, "ocs.meta.status"),
			Message: utils.ExtractStringValue(doc, "ocs.meta.message"),
		}
		if _, ok := utils.ExtractValue(doc, "ocs.meta.statuscode"); ok {
			code := utils.ExtractStringValue(doc, "ocs.meta.statuscode")
			meta.StatusCode = &code
		}
		return meta, nil
	default:
		return Meta{}, errNotOCS
	}
}

// ExtractStatusCode returns the OCS status code of resp.
func ExtractStatusCode(resp *Response) (string, error) {
	if resp == nil {
		return "", &MissingFieldError{Field: "statuscode"}
	}
	meta, err := ParseMeta(resp.Body)
	if err != nil || meta.StatusCode == nil {
		return "", &MissingFieldError{Field: "statuscode"}
	}
	return *meta.StatusCode, nil
}

// ExtractMessage returns the OCS status message of resp, or an empty string.
func ExtractMessage(resp *Response) string {
	if resp == nil {
		return ""
	}
	meta, err := ParseMeta(resp.Body)
	if err != nil {
		return ""
	}
	return meta.Message
}
