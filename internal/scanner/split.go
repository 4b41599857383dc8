package scanner

import "strings"

// SplitTopLevel splits text at every sep byte that is not nested inside (),
// [] or {} and, in Code mode, not inside a string literal. Parts are trimmed; empty parts
// (for example after a trailing comma) are dropped. In Code mode comments are
// removed from the parts as well.
func SplitTopLevel(text string, sep byte, mode Mode) []string {
	var parts []string
	depth := 0
	last := 0

	add := func(part string) {
		if mode == Code {
			part = StripComments(part)
		}
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	Walk(text, 0, mode, func(i int, c byte) bool {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				add(text[last:i])
				last = i + 1
			}
		}
		return true
	})
	add(text[last:])

	return parts
}

// StripComments removes //, # and /* */ comments that sit outside string literals.
func StripComments(text string) string {
	if !strings.ContainsAny(text, "/#") {
		return text
	}

	var b strings.Builder
	var quote byte
	next := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if end, ok := commentEnd(text, i); ok {
			b.WriteString(text[next:i])
			next = end
			i = end - 1
		}
	}
	b.WriteString(text[next:])

	return b.String()
}
