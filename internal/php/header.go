package php

import (
	"regexp"
	"strings"

	"github.com/chrisbeaver/outbound/internal/scanner"
)

// Header is the file-level context needed to qualify class names
type Header struct {
	Namespace string
	Class     string
	Extends   string            // parent class, fully qualified
	Imports   map[string]string // alias -> fully-qualified class
}

var (
	namespacePattern = regexp.MustCompile(`(?m)^\s*namespace\s+([\w\\]+)\s*[;{]`)
	classPattern     = regexp.MustCompile(`(?m)^\s*(?:(?:final|abstract|readonly)\s+)*class\s+(\w+)(?:\s+extends\s+([\w\\]+))?`)
	usePattern       = regexp.MustCompile(`(?m)^\s*use\s+([^;]+);`)
)

// ParseHeader reads the namespace, imports and class declaration of a PHP file.
// Only use statements before the class declaration count; trait uses inside
// the class body are ignored.
func ParseHeader(source string) Header {
	code := scanner.StripComments(source)
	header := Header{Imports: make(map[string]string)}

	if m := namespacePattern.FindStringSubmatch(code); m != nil {
		header.Namespace = m[1]
	}

	preamble := code
	if loc := classPattern.FindStringSubmatchIndex(code); loc != nil {
		header.Class = code[loc[2]:loc[3]]
		preamble = code[:loc[0]]
		if loc[4] != -1 {
			header.Extends = code[loc[4]:loc[5]]
		}
	}

	for _, m := range usePattern.FindAllStringSubmatch(preamble, -1) {
		header.addImport(m[1])
	}

	if header.Extends != "" {
		header.Extends = header.Qualify(header.Extends)
	}
	return header
}

// addImport records one use statement, including group imports
// ("use App\Http\Requests\{StorePost, UpdatePost as Update}").
func (h *Header) addImport(clause string) {
	clause = strings.TrimSpace(clause)
	lower := strings.ToLower(clause)
	if strings.HasPrefix(lower, "function ") || strings.HasPrefix(lower, "const ") {
		return
	}

	if open := strings.IndexByte(clause, '{'); open != -1 {
		prefix := strings.TrimRight(clause[:open], `\ `)
		inner, _, _ := scanner.Inner(clause, open)
		for _, member := range scanner.SplitTopLevel(inner, ',', scanner.Code) {
			h.addImport(prefix + `\` + member)
		}
		return
	}

	for _, part := range scanner.SplitTopLevel(clause, ',', scanner.Code) {
		fqcn, alias := part, ""
		if fields := strings.Fields(part); len(fields) == 3 && strings.EqualFold(fields[1], "as") {
			fqcn, alias = fields[0], fields[2]
		}
		fqcn = strings.TrimPrefix(strings.TrimSpace(fqcn), `\`)
		if alias == "" {
			alias = BaseName(fqcn)
		}
		h.Imports[alias] = fqcn
	}
}

// FQCN returns the fully-qualified name of the file's class
func (h Header) FQCN() string {
	if h.Namespace == "" {
		return h.Class
	}
	return h.Namespace + `\` + h.Class
}

// Qualify resolves a class name as written in this file to its fully-qualified form
func (h Header) Qualify(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, `\`) {
		return strings.TrimPrefix(name, `\`)
	}

	first, rest, nested := strings.Cut(name, `\`)
	if fqcn, ok := h.Imports[first]; ok {
		if nested {
			return fqcn + `\` + rest
		}
		return fqcn
	}

	if h.Namespace == "" {
		return name
	}
	return h.Namespace + `\` + name
}

// BaseName returns the unqualified class name
func BaseName(class string) string {
	if i := strings.LastIndexByte(class, '\\'); i != -1 {
		return class[i+1:]
	}
	return class
}
