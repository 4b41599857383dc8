// Package rules turns validation rule source text into rule tokens and maps
// rule tokens onto semantic parameter types.
package rules

import (
	"strings"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/scanner"
)

// SplitPipes tokenizes a pipe-delimited rule string such as "required|string|max:255".
func SplitPipes(rules string) []string {
	return scanner.SplitTopLevel(rules, '|', scanner.Plain)
}

// ParseRuleList tokenizes the inside of a bracket rule list. Quoted elements are
// unquoted (and pipe-split); any other element, e.g. Rule::in(['a','b']), is kept
// intact as a single token.
func ParseRuleList(inner string) []string {
	var tokens []string
	for _, element := range scanner.SplitTopLevel(inner, ',', scanner.Code) {
		if s, ok := scanner.Unquote(element); ok {
			tokens = append(tokens, SplitPipes(s)...)
			continue
		}
		tokens = append(tokens, element)
	}
	return tokens
}

// ParseRuleValue tokenizes the value side of a "key => value" rules entry.
func ParseRuleValue(expr string) []string {
	expr = strings.TrimSpace(scanner.StripComments(expr))
	if expr == "" {
		return nil
	}
	if s, ok := scanner.Unquote(expr); ok {
		return SplitPipes(s)
	}
	if open := listOpen(expr); open != -1 {
		inner, _, _ := scanner.Inner(expr, open)
		return ParseRuleList(inner)
	}
	return []string{expr}
}

// ParseRuleMap parses the inside of a "[ 'key' => rules, ... ]" literal into ordered
// entries. Entries without "=>" or without a literal key are skipped. A repeated key
// keeps its first position and takes the last value.
func ParseRuleMap(inner string) []models.RuleEntry {
	var entries []models.RuleEntry
	index := make(map[string]int)

	for _, element := range scanner.SplitTopLevel(inner, ',', scanner.Code) {
		arrow := scanner.IndexTopLevel(element, "=>")
		if arrow == -1 {
			continue
		}
		key, ok := scanner.Unquote(element[:arrow])
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		key = strings.TrimSpace(key)

		entry := models.RuleEntry{Key: key, Rules: ParseRuleValue(element[arrow+2:])}
		if i, seen := index[key]; seen {
			entries[i] = entry
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}

// ParseRulesArray parses a complete rules array expression ("[...]" or "array(...)").
// An unmatched literal yields no entries and an Unparseable error.
func ParseRulesArray(expr string) ([]models.RuleEntry, error) {
	expr = strings.TrimSpace(expr)
	open := listOpen(expr)
	if open == -1 {
		return nil, errors.Newf(errors.UnparseableCode, "rules argument is not an array literal: %.40q", expr)
	}
	inner, _, ok := scanner.Inner(expr, open)
	if !ok {
		return nil, errors.Unparseable("rules array", open)
	}
	return ParseRuleMap(inner), nil
}

// listOpen returns the index of the opening delimiter when expr is a "[...]" or
// "array(...)" literal, or -1.
func listOpen(expr string) int {
	if strings.HasPrefix(expr, "[") {
		return 0
	}
	if len(expr) >= 5 && strings.EqualFold(expr[:5], "array") {
		rest := strings.TrimLeft(expr[5:], " \t\r\n")
		if strings.HasPrefix(rest, "(") {
			return len(expr) - len(rest)
		}
	}
	return -1
}
