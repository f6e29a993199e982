package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/finsight/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// OpenAPI optionally documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// openapiPath converts a ServeMux pattern to an OpenAPI path template.
// Wildcard segments such as {key...} become {key}.
func openapiPath(pattern string) string {
	if pattern == "" {
		return "/"
	}
	return strings.ReplaceAll(pattern, "...}", "}")
}
