package routes

import (
	"strings"

	"github.com/JaimeStill/chateval/pkg/openapi"
)

// Describe adds every documented route in groups to spec. Routes without an
// OpenAPI operation are skipped. Group tags apply to operations that declare
// none, and a group description documents each of its tags.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", nil, group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	if group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}
	if group.Description != "" {
		for _, tag := range group.Tags {
			spec.AddTag(tag, group.Description)
		}
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		path := specPath(fullPrefix + route.Pattern)
		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		switch route.Method {
		case "GET":
			item.Get = &op
		case "POST":
			item.Post = &op
		case "PUT":
			item.Put = &op
		case "DELETE":
			item.Delete = &op
		}
	}

	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, tags, child)
	}
}

// specPath converts a ServeMux pattern into an OpenAPI path template.
// Wildcard suffixes ({key...}) and the exact-match marker ({$}) are normalized.
func specPath(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "{$}", "")
	pattern = strings.ReplaceAll(pattern, "...}", "}")
	if pattern == "" {
		return "/"
	}
	return pattern
}
