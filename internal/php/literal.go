package php

import (
	"regexp"
	"strings"

	"github.com/chrisbeaver/outbound/internal/scanner"
)

var returnPattern = regexp.MustCompile(`\breturn\b`)

// ReturnedArray returns the first array literal ("[...]" or "array(...)")
// that a return statement in body hands back. When the literal is never
// closed the rest of the body is returned so the caller can report it.
func ReturnedArray(body string) (string, bool) {
	for _, loc := range returnPattern.FindAllStringIndex(body, -1) {
		if !isCode(body, loc[0]) {
			continue
		}
		if literal, ok := arrayAt(body, loc[1]); ok {
			return literal, true
		}
	}
	return "", false
}

// AssignedArray returns the array literal most recently assigned to $name
// before offset in body.
func AssignedArray(body, name string, offset int) (string, bool) {
	if offset > len(body) || offset < 0 {
		offset = len(body)
	}
	pattern := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\s*=[^=>]`)

	var found string
	var ok bool
	for _, loc := range pattern.FindAllStringIndex(body[:offset], -1) {
		if !isCode(body, loc[0]) {
			continue
		}
		if literal, isArray := arrayAt(body, loc[1]-1); isArray {
			found, ok = literal, true
		}
	}
	return found, ok
}

// arrayAt returns the array literal starting at the first non-space byte at or after i.
func arrayAt(text string, i int) (string, bool) {
	rest := strings.TrimLeft(text[i:], " \t\r\n")
	start := len(text) - len(rest)

	open := -1
	switch {
	case strings.HasPrefix(rest, "["):
		open = start
	case len(rest) >= 5 && strings.EqualFold(rest[:5], "array"):
		after := strings.TrimLeft(rest[5:], " \t\r\n")
		if strings.HasPrefix(after, "(") {
			open = len(text) - len(after)
		}
	}
	if open == -1 {
		return "", false
	}

	end := scanner.FindClosing(text, open)
	if end == scanner.Unmatched {
		return text[start:], true
	}
	return text[start:end], true
}

// isCode reports whether index i of text lies outside literals and comments
func isCode(text string, i int) bool {
	inCode := false
	scanner.Walk(text, 0, scanner.Code, func(j int, c byte) bool {
		if j >= i {
			inCode = j == i
			return false
		}
		return true
	})
	return inCode
}
