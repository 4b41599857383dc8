package php

import (
	"strings"

	"github.com/chrisbeaver/outbound/internal/scanner"
)

// Param is one declared method parameter
type Param struct {
	Types []string // union members as written, without "?" nullability
	Name  string   // without the leading "$"
}

var paramModifiers = map[string]bool{
	"public":    true,
	"protected": true,
	"private":   true,
	"readonly":  true,
}

// ParseParams splits a parameter list into typed parameters.
// Attributes, default values, by-reference and variadic markers are dropped.
func ParseParams(list string) []Param {
	var params []Param
	for _, raw := range scanner.SplitTopLevel(list, ',', scanner.Code) {
		if eq := scanner.IndexTopLevel(raw, "="); eq != -1 {
			raw = raw[:eq]
		}
		raw = stripAttributes(raw)

		var param Param
		for _, field := range strings.Fields(raw) {
			switch {
			case strings.Contains(field, "$"):
				param.Name = strings.TrimLeft(field, "&.$")
			case paramModifiers[strings.ToLower(field)]:
			default:
				for _, member := range strings.Split(field, "|") {
					member = strings.Trim(member, "?() ")
					if member != "" {
						param.Types = append(param.Types, member)
					}
				}
			}
		}
		if param.Name != "" {
			params = append(params, param)
		}
	}
	return params
}

func stripAttributes(raw string) string {
	for {
		start := strings.Index(raw, "#[")
		if start == -1 {
			return raw
		}
		end := scanner.FindClosing(raw, start+1)
		if end == scanner.Unmatched {
			return raw[:start]
		}
		raw = raw[:start] + " " + raw[end:]
	}
}
