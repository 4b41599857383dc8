// Package php extracts structural pieces of PHP class source: method
// declarations and bodies, namespace and use imports, parameter lists and
// array literals. Everything is built on the balanced-delimiter scanner.
package php

import (
	"regexp"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/scanner"
)

// Method is one extracted method declaration
type Method struct {
	Name     string
	Params   string // text between the parameter parentheses
	Body     string // text between the body braces
	Offset   int    // index of the declaration in the comment-stripped source
	Complete bool   // false when the body brace was never closed
}

func declarationPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:(?:final|abstract)\s+)?(?:public|protected|private)(?:\s+static)?\s+function\s+&?` + quoted + `\s*\(`),
		regexp.MustCompile(`(?i)\bfunction\s+&?` + quoted + `\s*\(`),
	}
}

// ExtractMethod locates the named method in class source and returns its
// parameter list and body. Declarations with an access modifier are preferred;
// a bare "function name(" is the fallback. Multi-line signatures and return
// types are tolerated. An unclosed body is returned partially with
// Complete=false. A method that does not exist yields a NotFound error.
func ExtractMethod(source, name string) (*Method, error) {
	code := scanner.StripComments(source)

	for _, pattern := range declarationPatterns(name) {
		for _, loc := range pattern.FindAllStringIndex(code, -1) {
			if m, ok := methodAt(code, name, loc); ok {
				return m, nil
			}
		}
	}

	return nil, errors.NotFound("method", name)
}

// methodAt reads the declaration whose opening parenthesis ends loc.
// Abstract and interface declarations ending in ';' are skipped.
func methodAt(code, name string, loc []int) (*Method, bool) {
	open := loc[1] - 1
	params, closeParen, ok := scanner.Inner(code, open)
	if !ok {
		return nil, false
	}

	brace := scanner.Unmatched
	scanner.Walk(code, closeParen, scanner.Code, func(i int, c byte) bool {
		switch c {
		case '{':
			brace = i
			return false
		case ';':
			return false
		}
		return true
	})
	if brace == scanner.Unmatched {
		return nil, false
	}

	body, _, complete := scanner.Inner(code, brace)
	return &Method{
		Name:     name,
		Params:   params,
		Body:     body,
		Offset:   loc[0],
		Complete: complete,
	}, true
}
