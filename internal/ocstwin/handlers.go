package ocstwin

import (
	"fmt"
	"net/http"
	"strings"

	"ocs-acceptance/internal/ocs"

	"github.com/gorilla/mux"
)

type userData struct {
	ID      string `xml:"id" json:"id"`
	Enabled string `xml:"enabled" json:"enabled"`
	Email   string `xml:"email" json:"email"`
}

type capabilitiesData struct {
	Version struct {
		Major  int    `xml:"major" json:"major"`
		Minor  int    `xml:"minor" json:"minor"`
		String string `xml:"string" json:"string"`
	} `xml:"version" json:"version"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	version := apiVersion(r)
	caller, ok := s.authenticate(r)
	if !ok || caller != s.admin {
		s.write(w, r, reply{version: version, code: codeUnauthorised, message: messageUnauthorised})
		return
	}
	if err := r.ParseForm(); err != nil {
		s.write(w, r, reply{version: version, code: codeInvalidInput, message: messageInvalidInput})
		return
	}
	userID := r.PostForm.Get("userid")
	password := r.PostForm.Get("password")
	if userID == "" || password == "" {
		s.write(w, r, reply{version: version, code: codeInvalidInput, message: messageInvalidInput})
		return
	}
	if s.HasUser(userID) {
		s.write(w, r, reply{version: version, code: codeExists, message: messageExists})
		return
	}
	s.AddUser(userID, password)
	s.write(w, r, reply{version: version, code: codeOK, message: messageOK})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	version := apiVersion(r)
	caller, ok := s.authenticate(r)
	target := strings.ToLower(mux.Vars(r)["userid"])
	if !ok || (caller != s.admin && caller != target) {
		s.write(w, r, reply{version: version, code: codeUnauthorised, message: messageUnauthorised})
		return
	}
	if !s.HasUser(target) {
		s.write(w, r, reply{version: version, code: codeNotFound, message: messageNotFound})
		return
	}
	s.write(w, r, reply{
		version: version,
		code:    codeOK,
		message: messageOK,
		data:    userData{ID: target, Enabled: "true", Email: fmt.Sprintf("%s@example.org", target)},
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	version := apiVersion(r)
	caller, ok := s.authenticate(r)
	if !ok || caller != s.admin {
		s.write(w, r, reply{version: version, code: codeUnauthorised, message: messageUnauthorised})
		return
	}
	target := strings.ToLower(mux.Vars(r)["userid"])
	if target == s.admin || !s.HasUser(target) {
		s.write(w, r, reply{version: version, code: codeInvalidInput, message: messageInvalidInput})
		return
	}
	s.mu.Lock()
	delete(s.users, target)
	s.mu.Unlock()
	s.write(w, r, reply{version: version, code: codeOK, message: messageOK})
}

func (s *Server) capabilities(w http.ResponseWriter, r *http.Request) {
	version := apiVersion(r)
	if _, ok := s.authenticate(r); !ok {
		s.write(w, r, reply{version: version, code: codeUnauthorised, message: messageUnauthorised})
		return
	}
	var data capabilitiesData
	data.Version.Major = 10
	data.Version.Minor = 13
	data.Version.String = "10.13.0"
	s.write(w, r, reply{version: version, code: codeOK, message: messageOK, data: data})
}

func (s *Server) invalidQuery(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, reply{version: apiVersion(r), code: codeNotFound, message: messageInvalidQuery})
}

const multiStatus = `<?xml version="1.0"?>` +
	`<d:multistatus xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">` +
	`<d:response><d:href>%s</d:href><d:propstat><d:prop/><d:status>HTTP/1.1 200 OK</d:status></d:propstat></d:response>` +
	`</d:multistatus>`

// dav answers WebDAV requests on a user's files without storing anything.
func (s *Server) dav(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="ownCloud"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if caller != strings.ToLower(mux.Vars(r)["user"]) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("content"))
	case http.MethodPut, "MKCOL":
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case ocs.MethodPropfind, ocs.MethodProppatch:
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusMultiStatus)
		_, _ = fmt.Fprintf(w, multiStatus, r.URL.Path)
	case ocs.MethodCopy, ocs.MethodMove:
		if r.Header.Get(ocs.HeaderDestination) == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
