package rules

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/scanner"
)

// typeRule binds a set of rule names to the type they imply
type typeRule struct {
	typ   models.ParamType
	names map[string]bool
}

func names(list ...string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, n := range list {
		m[n] = true
	}
	return m
}

// precedence is consulted top to bottom; the first set with a matching rule name wins.
var precedence = []typeRule{
	{models.TypeFile, names("file", "image", "mimes", "mimetypes", "dimensions", "extensions")},
	{models.TypeBoolean, names("boolean", "bool", "accepted", "declined", "accepted_if", "declined_if")},
	{models.TypeInteger, names("integer", "int", "digits", "digits_between")},
	{models.TypeNumber, names("numeric", "decimal")},
	{models.TypeArray, names("array", "list")},
	{models.TypeDate, names("date", "date_format", "date_equals", "before", "after", "before_or_equal", "after_or_equal")},
	{models.TypeEmail, names("email")},
	{models.TypeURL, names("url", "active_url")},
	{models.TypeUUID, names("uuid")},
	{models.TypeObject, names("json")},
}

// RuleName returns the name a token is classified by: the text before ':' for
// string rules, the snake_cased method for Rule:: builders and the class name
// for "new X(...)" rule objects.
func RuleName(token string) string {
	token = strings.TrimSpace(token)

	switch {
	case strings.HasPrefix(token, "Rule::"):
		return snake(callName(token[len("Rule::"):]))
	case strings.HasPrefix(token, "File::"):
		if callName(token[len("File::"):]) == "image" {
			return "image"
		}
		return "file"
	case strings.HasPrefix(token, "Password::"):
		return "password"
	case strings.HasPrefix(token, "new "):
		class := callName(strings.TrimSpace(token[len("new "):]))
		if i := strings.LastIndexByte(class, '\\'); i != -1 {
			class = class[i+1:]
		}
		return snake(class)
	}

	name, _, _ := strings.Cut(token, ":")
	return strings.ToLower(strings.TrimSpace(name))
}

// InferType maps a rule-token set onto exactly one semantic type
func InferType(tokens []string) models.ParamType {
	present := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		present[RuleName(token)] = true
	}
	for _, rule := range precedence {
		for name := range rule.names {
			if present[name] {
				return rule.typ
			}
		}
	}
	return models.TypeString
}

// IsRequired reports whether the plain "required" rule is present
func IsRequired(tokens []string) bool {
	for _, token := range tokens {
		if strings.TrimSpace(token) == "required" {
			return true
		}
	}
	return false
}

// EnumValues returns the candidate values of the first "in" rule, either the
// string form "in:a,b" or the builder form Rule::in(['a', 'b']).
func EnumValues(tokens []string) []string {
	for _, token := range tokens {
		if RuleName(token) != "in" {
			continue
		}
		token = strings.TrimSpace(token)
		if _, list, found := strings.Cut(token, ":"); found && !strings.Contains(token, "::") {
			return listValues(scanner.SplitTopLevel(list, ',', scanner.Plain))
		}
		return builderValues(token)
	}
	return nil
}

// Default returns a value implied by the rules themselves
func Default(tokens []string) (interface{}, bool) {
	for _, token := range tokens {
		switch RuleName(token) {
		case "accepted":
			return true, true
		case "declined":
			return false, true
		}
	}
	return nil, false
}

// Min returns the numeric bound of a "min:N" rule
func Min(tokens []string) (float64, bool) {
	for _, token := range tokens {
		name, arg, found := strings.Cut(strings.TrimSpace(token), ":")
		if !found || name != "min" {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// Analysis is everything derived from one field's rule tokens
type Analysis struct {
	Type       models.ParamType
	Required   bool
	Enum       []string
	Default    interface{}
	HasDefault bool
}

// Analyze runs every rule mapper over the tokens
func Analyze(tokens []string) Analysis {
	def, ok := Default(tokens)
	return Analysis{
		Type:       InferType(tokens),
		Required:   IsRequired(tokens),
		Enum:       EnumValues(tokens),
		Default:    def,
		HasDefault: ok,
	}
}

func builderValues(token string) []string {
	open := strings.IndexByte(token, '(')
	if open == -1 {
		return nil
	}
	args, _, _ := scanner.Inner(token, open)
	args = strings.TrimSpace(args)

	if start := listOpen(args); start != -1 {
		inner, _, _ := scanner.Inner(args, start)
		return literalValues(scanner.SplitTopLevel(inner, ',', scanner.Code))
	}
	return literalValues(scanner.SplitTopLevel(args, ',', scanner.Code))
}

// listValues reads the "in:a,b" form, unquoting quoted values
func listValues(parts []string) []string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if s, ok := scanner.Unquote(part); ok {
			part = s
		}
		values = append(values, part)
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// literalValues keeps the string and number literals of a Rule::in argument
// list. Anything computed, such as Status::values(), is dropped.
func literalValues(parts []string) []string {
	var values []string
	for _, part := range parts {
		if s, ok := scanner.Unquote(part); ok {
			values = append(values, s)
			continue
		}
		if _, err := strconv.ParseFloat(part, 64); err == nil {
			values = append(values, part)
		}
	}
	return values
}

// callName returns the identifier before the argument list
func callName(expr string) string {
	if i := strings.IndexByte(expr, '('); i != -1 {
		expr = expr[:i]
	}
	return strings.TrimSpace(expr)
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
