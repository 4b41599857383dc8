package schema

import (
	"regexp"

	"github.com/chrisbeaver/outbound/internal/models"
)

// Example is a ready-to-send request for one route
type Example struct {
	Method string                 `json:"method" yaml:"method"`
	URI    string                 `json:"uri" yaml:"uri"`
	Path   map[string]string      `json:"path,omitempty" yaml:"path,omitempty"`
	Body   map[string]interface{} `json:"body" yaml:"body"`
}

var placeholder = regexp.MustCompile(`\{[^{}]*\}`)

// ExampleURI fills every placeholder of a route template, optional ones included
func ExampleURI(template string) string {
	return placeholder.ReplaceAllString(models.NormalizeURI(template), PathParamExample)
}

// Example builds the example request for a parsed route
func (s *Synthesizer) Example(route *models.ParsedRoute) Example {
	example := Example{
		Method: route.Method,
		URI:    ExampleURI(route.URI),
		Body:   s.Payload(route.RequestParams),
	}
	for _, node := range route.PathParams() {
		if example.Path == nil {
			example.Path = make(map[string]string)
		}
		example.Path[node.Name] = PathParamExample
	}
	return example
}

// ExampleFor builds the example request using the wall clock
func ExampleFor(route *models.ParsedRoute) Example {
	return defaultSynthesizer.Example(route)
}
