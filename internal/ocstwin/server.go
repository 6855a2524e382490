// Package ocstwin is an in-process stand-in for an OCS server. It answers
// the provisioning, capabilities and WebDAV files endpoints the acceptance
// features use, with the status code conventions of OCS API v1 and v2.
package ocstwin

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"ocs-acceptance/internal/ocs"

	"github.com/gorilla/mux"
)

const (
	messageOK           = "OK"
	messageUnauthorised = "Unauthorised"
	messageNotFound     = "The requested user could not be found"
	messageExists       = "User already exists"
	messageInvalidInput = "Invalid input data"
	messageInvalidQuery = "Invalid query, please check the syntax. API specifications are here: http://www.freedesktop.org/wiki/Specifications/open-collaboration-services."
)

type Server struct {
	mu       sync.RWMutex
	admin    string
	users    map[string]string
	messages ocs.MessageTable
	router   *mux.Router
}

// New returns a twin knowing only the administrator. messages localizes status
// messages by the Accept-Language header and may be nil.
func New(admin ocs.Credential, messages ocs.MessageTable) *Server {
	s := &Server{
		admin:    strings.ToLower(admin.Username),
		users:    map[string]string{strings.ToLower(admin.Username): admin.Password},
		messages: messages,
		router:   mux.NewRouter(),
	}

	ocsRouter := s.router.PathPrefix("/ocs/v{version:[12]}.php").Subrouter()
	ocsRouter.HandleFunc("/cloud/users", s.createUser).Methods(http.MethodPost)
	ocsRouter.HandleFunc("/cloud/users/{userid}", s.getUser).Methods(http.MethodGet)
	ocsRouter.HandleFunc("/cloud/users/{userid}", s.deleteUser).Methods(http.MethodDelete)
	ocsRouter.HandleFunc("/cloud/capabilities", s.capabilities).Methods(http.MethodGet)
	ocsRouter.PathPrefix("/").HandlerFunc(s.invalidQuery)

	s.router.PathPrefix("/remote.php/dav/files/{user}").HandlerFunc(s.dav)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(ocs.HeaderRequestID); id != "" {
		w.Header().Set(ocs.HeaderRequestID, id)
	}
	s.router.ServeHTTP(w, r)
}

// AddRoutes mounts the twin on a shared mux so it can run behind the
// standard HTTP server middlewares.
func (s *Server) AddRoutes(router *http.ServeMux) {
	router.Handle("/", s)
}

// AddUser registers a user directly, bypassing the provisioning endpoint.
func (s *Server) AddUser(name, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(name)] = password
}

// Reset forgets every user but the administrator.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	adminPassword := s.users[s.admin]
	s.users = map[string]string{s.admin: adminPassword}
}

func (s *Server) HasUser(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[strings.ToLower(name)]
	return ok
}

// authenticate returns the lower-cased name of the user the basic auth
// credentials belong to.
func (s *Server) authenticate(r *http.Request) (string, bool) {
	user, password, ok := r.BasicAuth()
	if !ok {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	name := strings.ToLower(user)
	stored, known := s.users[name]
	if !known || stored != password {
		return "", false
	}
	return name, true
}

func (s *Server) localize(message, lang string) string {
	if lang == "" {
		return message
	}
	if translated := s.messages.Translate(message, lang); translated != message {
		return translated
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return s.messages.Translate(message, lang[:i])
	}
	return message
}

func apiVersion(r *http.Request) int {
	v, err := strconv.Atoi(mux.Vars(r)["version"])
	if err != nil {
		return 1
	}
	return v
}
