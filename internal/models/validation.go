package models

import "strings"

// SourceKind tells where a route's rules came from
type SourceKind string

const (
	SourceInline      SourceKind = "inline"
	SourceFormRequest SourceKind = "form-request"
)

// ValidationSource is the provenance of the rules used for one route
type ValidationSource struct {
	Kind  SourceKind `json:"kind" yaml:"kind"`
	Class string     `json:"class,omitempty" yaml:"class,omitempty"` // Form Request class, if any
	Path  string     `json:"path,omitempty" yaml:"path,omitempty"`   // file the rules were read from
	Shape string     `json:"shape,omitempty" yaml:"shape,omitempty"` // inline call shape that matched
}

// RuleEntry is one "key => rules" pair of a rules array, in declaration order
type RuleEntry struct {
	Key   string   `json:"key" yaml:"key"`
	Rules []string `json:"rules" yaml:"rules"`
}

// ResolvedFormRequest is the memoized outcome of resolving one Form Request class.
// A nil *ResolvedFormRequest in the cache records a failed lookup.
type ResolvedFormRequest struct {
	Source  ValidationSource
	Rules   []RuleEntry
	Warning error // set when rules() could only be read partially
}

// ParsedRoute is the output of parsing a single route
type ParsedRoute struct {
	Method           string            `json:"method" yaml:"method"`
	URI              string            `json:"uri" yaml:"uri"`
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	Action           string            `json:"action,omitempty" yaml:"action,omitempty"`
	Middleware       []string          `json:"middleware,omitempty" yaml:"middleware,omitempty"`
	RequestParams    []*ParameterNode  `json:"requestParams" yaml:"requestParams"`
	FormRequestClass string            `json:"formRequestClass,omitempty" yaml:"formRequestClass,omitempty"`
	FormRequestPath  string            `json:"formRequestPath,omitempty" yaml:"formRequestPath,omitempty"`
	Source           *ValidationSource `json:"validationSource,omitempty" yaml:"validationSource,omitempty"`
	Warnings         []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewParsedRoute seeds a result with the route's identity and its path parameters
func NewParsedRoute(route RouteDefinition) *ParsedRoute {
	parsed := &ParsedRoute{
		Method:        route.Method(),
		URI:           route.URI,
		Name:          route.Name,
		Action:        route.Action,
		Middleware:    route.Middleware,
		RequestParams: []*ParameterNode{},
	}
	for _, p := range route.PathParameters() {
		parsed.RequestParams = append(parsed.RequestParams, p.Node())
	}
	return parsed
}

// PathParams returns the leading path parameter nodes
func (r *ParsedRoute) PathParams() []*ParameterNode {
	var nodes []*ParameterNode
	for _, n := range r.RequestParams {
		if n.IsPathParam {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// BodyParams returns every non-path parameter node
func (r *ParsedRoute) BodyParams() []*ParameterNode {
	var nodes []*ParameterNode
	for _, n := range r.RequestParams {
		if !n.IsPathParam {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Key identifies the parsed route as "METHOD uri"
func (r *ParsedRoute) Key() string {
	return r.Method + " " + NormalizeURI(r.URI)
}

// FindRoute selects a route by name, or by "METHOD uri" when the selector
// contains a space. The uri is compared with one leading slash.
func FindRoute(parsed []*ParsedRoute, selector string) *ParsedRoute {
	selector = strings.TrimSpace(selector)
	method, uri, byKey := strings.Cut(selector, " ")
	if byKey {
		selector = strings.ToUpper(method) + " " + NormalizeURI(uri)
	}

	for _, route := range parsed {
		if byKey && route.Key() == selector {
			return route
		}
		if !byKey && route.Name != "" && route.Name == selector {
			return route
		}
	}
	return nil
}
