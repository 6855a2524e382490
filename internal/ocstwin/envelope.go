package ocstwin

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"
)

// OCS status codes answered by the twin.
const (
	codeOK           = 100
	codeInvalidInput = 101
	codeExists       = 102
	codeUnauthorised = 997
	codeNotFound     = 998
)

type meta struct {
	Status     string `xml:"status" json:"status"`
	StatusCode int    `xml:"statuscode" json:"statuscode"`
	Message    string `xml:"message" json:"message"`
}

type envelope struct {
	XMLName xml.Name `xml:"ocs" json:"-"`
	Meta    meta     `xml:"meta" json:"meta"`
	Data    any      `xml:"data" json:"data"`
}

type reply struct {
	version int
	code    int
	message string
	data    any
}

// statusCodes maps the twin's OCS code to the HTTP status and the code
// reported for the given API version.
func (r reply) statusCodes() (int, int) {
	if r.version == 1 {
		if r.code == codeUnauthorised {
			return http.StatusUnauthorized, r.code
		}
		return http.StatusOK, r.code
	}
	switch r.code {
	case codeOK:
		return http.StatusOK, http.StatusOK
	case codeUnauthorised:
		return http.StatusUnauthorized, http.StatusUnauthorized
	case codeNotFound:
		return http.StatusNotFound, http.StatusNotFound
	default:
		return http.StatusBadRequest, r.code
	}
}

func (s *Server) write(w http.ResponseWriter, req *http.Request, r reply) {
	httpStatus, ocsStatus := r.statusCodes()
	status := "ok"
	if r.code != codeOK {
		status = "failure"
	}
	env := envelope{
		Meta: meta{
			Status:     status,
			StatusCode: ocsStatus,
			Message:    s.localize(r.message, language(req)),
		},
		Data: r.data,
	}
	if env.Data == nil {
		env.Data = struct{}{}
	}

	if req.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]any{"ocs": env})
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	w.WriteHeader(httpStatus)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(env)
}

// language returns the primary tag of the Accept-Language header.
func language(r *http.Request) string {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.SplitN(strings.SplitN(header, ",", 2)[0], ";", 2)[0])
	return strings.ToLower(tag)
}
