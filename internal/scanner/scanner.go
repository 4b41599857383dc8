// Package scanner implements the quote-aware balanced-delimiter scanner every
// other extraction step is built on. It does not parse PHP; it only tracks
// bracket depth, string literals and comments well enough to find where a
// brace-, bracket- or paren-delimited region ends.
package scanner

import "strings"

// Unmatched is returned when text ends before the matching closing delimiter.
const Unmatched = -1

var pairs = map[byte]byte{
	'{': '}',
	'[': ']',
	'(': ')',
}

// Closer returns the closing counterpart of an opening delimiter.
func Closer(open byte) (byte, bool) {
	c, ok := pairs[open]
	return c, ok
}

// Mode controls which lexical constructs are skipped while scanning.
type Mode int

const (
	// Code skips string literals and //, # or /* */ comments. "#[" opens an attribute, not a comment.
	Code Mode = iota
	// Plain tracks nesting only. Text that came out of a string literal is
	// plain: quotes and slashes in it are ordinary characters.
	Plain
)

// Walk calls fn for every byte of text from start onwards that lies outside
// string literals and comments (Code mode). A backslash inside a literal
// escapes the following byte. Walking stops when fn returns false.
func Walk(text string, start int, mode Mode, fn func(i int, c byte) bool) {
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
		if mode == Plain {
			if !fn(i, c) {
				return
			}
			continue
		}

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
			i = end - 1
			continue
		}

		if !fn(i, c) {
			return
		}
	}
}

// commentEnd reports whether a comment starts at text[i] and returns the index
// just past it. Line comments end before their newline; an unterminated block
// comment runs to the end of text.
func commentEnd(text string, i int) (int, bool) {
	switch {
	case text[i] == '#':
		if i+1 < len(text) && text[i+1] == '[' {
			return 0, false
		}
		return lineEnd(text, i), true
	case text[i] != '/' || i+1 >= len(text):
		return 0, false
	case text[i+1] == '/':
		return lineEnd(text, i), true
	case text[i+1] == '*':
		end := strings.Index(text[i+2:], "*/")
		if end == -1 {
			return len(text), true
		}
		return i + 2 + end + 2, true
	}
	return 0, false
}

func lineEnd(text string, i int) int {
	nl := strings.IndexByte(text[i:], '\n')
	if nl == -1 {
		return len(text)
	}
	return i + nl
}

// FindClosing returns the index one past the delimiter that closes the one at
// text[open], or Unmatched. The pair is derived from text[open].
func FindClosing(text string, open int) int {
	if open < 0 || open >= len(text) {
		return Unmatched
	}
	closeCh, ok := Closer(text[open])
	if !ok {
		return Unmatched
	}
	return FindClosingPair(text, open, text[open], closeCh)
}

// FindClosingPair is FindClosing for an explicit open/close pair.
func FindClosingPair(text string, open int, openCh, closeCh byte) int {
	if open < 0 || open >= len(text) || text[open] != openCh {
		return Unmatched
	}

	end := Unmatched
	depth := 0
	Walk(text, open, Code, func(i int, c byte) bool {
		switch c {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				end = i + 1
				return false
			}
		}
		return true
	})
	return end
}

// Inner returns the text between the delimiter at text[open] and its match.
// When the delimiter is unmatched the remainder of text is returned with ok=false,
// so callers can fall back to a partial extraction.
func Inner(text string, open int) (inner string, end int, ok bool) {
	end = FindClosing(text, open)
	if end == Unmatched {
		if open+1 > len(text) {
			return "", Unmatched, false
		}
		return text[open+1:], Unmatched, false
	}
	return text[open+1 : end-1], end, true
}

// IndexTopLevel returns the index of the first occurrence of substr in text
// that is outside literals, comments and any (), [] or {} nesting, or -1.
func IndexTopLevel(text, substr string) int {
	found := -1
	depth := 0
	Walk(text, 0, Code, func(i int, c byte) bool {
		switch c {
		case '(', '[', '{':
			depth++
			return true
		case ')', ']', '}':
			depth--
			return true
		}
		if depth == 0 && c == substr[0] && strings.HasPrefix(text[i:], substr) {
			found = i
			return false
		}
		return true
	})
	return found
}
