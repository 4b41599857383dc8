package scanner

import "strings"

// literalEnd returns the index one past the string literal starting at s[0], or Unmatched.
func literalEnd(s string) int {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return Unmatched
	}
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return Unmatched
}

// IsStringLiteral reports whether s (trimmed) is exactly one quoted literal.
func IsStringLiteral(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && literalEnd(s) == len(s)
}

// Unquote returns the contents of a single- or double-quoted literal with
// escaped quotes and backslashes resolved. ok is false when s is not exactly
// one literal.
func Unquote(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !IsStringLiteral(s) {
		return "", false
	}

	quote := s[0]
	body := s[1 : len(s)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		next := body[i+1]
		switch {
		case next == quote || next == '\\':
			b.WriteByte(next)
			i++
		case quote == '"' && next == 'n':
			b.WriteByte('\n')
			i++
		case quote == '"' && next == 't':
			b.WriteByte('\t')
			i++
		case quote == '"' && next == '$':
			b.WriteByte('$')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), true
}
