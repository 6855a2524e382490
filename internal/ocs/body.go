package ocs

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Body is the payload of a request. It is one of EmptyBody, FormFields or
// RawBody.
type Body interface {
	// Encode returns the wire form of the body and its content type. An empty
	// content type means no Content-Type header is set.
	Encode() (string, string)
	isBody()
}

// EmptyBody sends no payload.
type EmptyBody struct{}

func (EmptyBody) Encode() (string, string) { return "", "" }
func (EmptyBody) isBody()                  {}

// FormFields is sent form-encoded with keys in sorted order.
type FormFields map[string]string

func (f FormFields) Encode() (string, string) {
	if len(f) == 0 {
		return "", ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f[k]))
	}
	return sb.String(), "application/x-www-form-urlencoded"
}

func (FormFields) isBody() {}

// RawBody is sent as is.
type RawBody string

func (r RawBody) Encode() (string, string) {
	if r == "" {
		return "", ""
	}
	if strings.HasPrefix(strings.TrimSpace(string(r)), "<") {
		return string(r), "application/xml"
	}
	return string(r), "text/plain"
}

func (RawBody) isBody() {}

// BodyOf returns RawBody for a non-empty string and EmptyBody otherwise.
func BodyOf(raw string) Body {
	if raw == "" {
		return EmptyBody{}
	}
	return RawBody(raw)
}

const (
	MethodPropfind  = "PROPFIND"
	MethodProppatch = "PROPPATCH"
	MethodCopy      = "COPY"
	MethodMove      = "MOVE"
)

// propertyValue is written by PROPPATCH requests built from a property name.
const propertyValue = "some-value"

// PropertyBody builds the WebDAV body that reads (PROPFIND) or writes
// (PROPPATCH) a single oc: property. Other methods get no body.
func PropertyBody(method, property string) Body {
	switch strings.ToUpper(method) {
	case MethodPropfind:
		return RawBody(fmt.Sprintf(
			`<?xml version="1.0"?><d:propfind xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">`+
				`<d:prop><%s/></d:prop></d:propfind>`, qualify(property)))
	case MethodProppatch:
		p := qualify(property)
		return RawBody(fmt.Sprintf(
			`<?xml version="1.0"?><d:propertyupdate xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">`+
				`<d:set><d:prop><%s>%s</%s></d:prop></d:set></d:propertyupdate>`, p, propertyValue, p))
	default:
		return EmptyBody{}
	}
}

func qualify(property string) string {
	if strings.Contains(property, ":") {
		return property
	}
	return "oc:" + property
}

// needsDestination reports whether method moves or copies a resource.
func needsDestination(method string) bool {
	m := strings.ToUpper(method)
	return m == MethodCopy || m == MethodMove
}
