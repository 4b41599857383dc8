// Package routes decodes route feeds and the controller action references they carry.
package routes

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/chrisbeaver/outbound/internal/errors"
)

// InvokeMethod is the method an invokable controller is dispatched to
const InvokeMethod = "__invoke"

// Action is a resolved controller action reference
type Action struct {
	Class  string // fully-qualified, no leading backslash
	Method string
}

func (a Action) String() string {
	return a.Class + "@" + a.Method
}

// actionRef is the grammar of "Ns\Class@method", "\Ns\Class" or "Ns\Class::method"
type actionRef struct {
	Segments []string `parser:"Sep? @Ident (Sep @Ident)*"`
	Method   string   `parser:"((At | Scope) @Ident)?"`
}

var actionParser = participle.MustBuild[actionRef](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[a-zA-Z_\x80-\xff][a-zA-Z0-9_\x80-\xff]*`},
		{Name: "Scope", Pattern: `::`},
		{Name: "Sep", Pattern: `\\`},
		{Name: "At", Pattern: `@`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
)

// ParseAction parses the action column of a route. Closures and empty actions
// have no controller and yield nil without error; a bare class is invokable.
func ParseAction(raw string) (*Action, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "Closure" {
		return nil, nil
	}

	ref, err := actionParser.ParseString("", raw)
	if err != nil {
		return nil, errors.Wrap(errors.UnparseableCode, "invalid action reference", err).
			WithContext("action", raw)
	}

	action := &Action{
		Class:  strings.Join(ref.Segments, `\`),
		Method: ref.Method,
	}
	if action.Method == "" {
		action.Method = InvokeMethod
	}
	return action, nil
}
