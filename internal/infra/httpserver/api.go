package httpserver

import "net/http"

// Controller registers its routes on the server's mux.
type Controller interface {
	AddRoutes(*http.ServeMux)
}
