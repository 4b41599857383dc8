package models

import "strings"

// RouteDefinition is one record of the route feed
type RouteDefinition struct {
	Methods    []string `json:"methods" yaml:"methods"`                           // HTTP methods, first is canonical
	URI        string   `json:"uri" yaml:"uri"`                                   // path template with {name} / {name?} segments
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`             // route name
	Action     string   `json:"action,omitempty" yaml:"action,omitempty"`         // "Ns\Class@method", bare class or Closure
	Middleware []string `json:"middleware,omitempty" yaml:"middleware,omitempty"` // middleware names
}

// Method returns the canonical HTTP method of the route
func (r RouteDefinition) Method() string {
	if len(r.Methods) == 0 {
		return "GET"
	}
	return strings.ToUpper(r.Methods[0])
}

// Key identifies the route as "METHOD uri"
func (r RouteDefinition) Key() string {
	return r.Method() + " " + NormalizeURI(r.URI)
}

// PathParameters returns the placeholders of the route's URI template
func (r RouteDefinition) PathParameters() []PathParameter {
	return ParsePathParameters(r.URI)
}

// PathParameter is a {name} or {name?} placeholder in a route template
type PathParameter struct {
	Name     string `json:"name" yaml:"name"`
	Required bool   `json:"required" yaml:"required"`
}

// Node converts the path parameter into its schema node
func (p PathParameter) Node() *ParameterNode {
	return &ParameterNode{
		Name:        p.Name,
		Type:        TypeString,
		Required:    p.Required,
		IsPathParam: true,
	}
}

// ParsePathParameters extracts placeholders from a route template in template order.
// A trailing "?" marks the parameter optional; a binding field ("{post:slug}") is dropped.
func ParsePathParameters(template string) []PathParameter {
	var parameters []PathParameter

	i := 0
	for i < len(template) {
		start := strings.IndexByte(template[i:], '{')
		if start == -1 {
			break
		}
		start += i

		end := strings.IndexByte(template[start:], '}')
		if end == -1 {
			break // unclosed placeholder, nothing further can be read
		}
		end += start
		i = end + 1

		def := strings.TrimSpace(template[start+1 : end])
		required := true
		if strings.HasSuffix(def, "?") {
			required = false
			def = strings.TrimSuffix(def, "?")
		}
		if name, _, found := strings.Cut(def, ":"); found {
			def = name
		}
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}

		parameters = append(parameters, PathParameter{
			Name:     def,
			Required: required,
		})
	}

	return parameters
}

// NormalizeURI returns the template with exactly one leading slash
func NormalizeURI(uri string) string {
	return "/" + strings.TrimLeft(strings.TrimSpace(uri), "/")
}
