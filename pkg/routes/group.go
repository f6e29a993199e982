package routes

import (
	"net/http"

	"github.com/JaimeStill/finsight/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
// Schemas are component schemas referenced by the group's operations.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

// Describe adds the operations and schemas of the given groups to spec.
// Paths are prefixed with basePath. Routes without an OpenAPI operation are skipped.
// Operations without tags inherit the tags of their group.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, basePath, group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	if len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}

		spec.Path(openapiPath(fullPrefix+route.Pattern)).Set(route.Method, &op)
	}

	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, child)
	}
}
