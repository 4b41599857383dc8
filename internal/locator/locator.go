// Package locator decides where a controller method's validation rules come
// from: an inline validation call in the body, a Form Request type-hint in the
// signature, or nothing.
package locator

import (
	"strings"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/php"
	"github.com/chrisbeaver/outbound/internal/rules"
	"github.com/chrisbeaver/outbound/internal/scanner"
)

// Validation is the selected rules source: *InlineValidation or *FormRequestValidation
type Validation interface {
	Kind() models.SourceKind
}

// InlineValidation is a validation call found in the method body
type InlineValidation struct {
	Shape string
	Rules []models.RuleEntry
}

// Kind implements Validation
func (*InlineValidation) Kind() models.SourceKind { return models.SourceInline }

// FormRequestValidation is a Form Request class type-hinted in the method signature
type FormRequestValidation struct {
	Param string // parameter name without "$"
	Class string // fully-qualified class name
}

// Kind implements Validation
func (*FormRequestValidation) Kind() models.SourceKind { return models.SourceFormRequest }

// Decision is the outcome of locating validation for one method
type Decision struct {
	Validation Validation // nil when the method validates nothing recognizable
	Warnings   []error    // soft failures: unresolvable arguments, ambiguous sources
}

// Locate tries each inline call shape in order; the first match wins. Without
// an inline call the parameter list is checked for a Form Request type-hint.
// When both are present the inline call wins and an AmbiguousSource warning
// is recorded.
func Locate(method *php.Method, header php.Header) Decision {
	var decision Decision

	formRequest := FindFormRequest(method.Params, header)

	if inline, warnings, ok := findInline(method.Body); ok {
		decision.Validation = inline
		decision.Warnings = warnings
		if formRequest != nil {
			decision.Warnings = append(decision.Warnings, errors.AmbiguousSource(inline.Shape, formRequest.Class))
		}
		return decision
	}

	if formRequest != nil {
		decision.Validation = formRequest
	}
	return decision
}

// FindFormRequest returns the first parameter type-hinted with a class whose
// name ends in "Request" and that is not the framework's plain request.
func FindFormRequest(params string, header php.Header) *FormRequestValidation {
	for _, param := range php.ParseParams(params) {
		for _, typ := range param.Types {
			if !IsFormRequestType(typ) {
				continue
			}
			class := header.Qualify(typ)
			if class == plainRequest || class == baseFormRequest {
				continue
			}
			return &FormRequestValidation{Param: param.Name, Class: class}
		}
	}
	return nil
}

const (
	plainRequest    = `Illuminate\Http\Request`
	baseFormRequest = `Illuminate\Foundation\Http\FormRequest`
)

// IsFormRequestType reports whether a type name, as written, looks like a Form Request
func IsFormRequestType(typ string) bool {
	base := php.BaseName(typ)
	return strings.HasSuffix(base, "Request") && base != "Request" && base != "FormRequest"
}

func findInline(body string) (*InlineValidation, []error, bool) {
	code := scanner.StripComments(body)

	for _, shape := range shapes {
		for _, match := range shape.pattern.FindAllStringSubmatchIndex(code, -1) {
			index := shape.rulesArg(code, match)
			if index < 0 {
				continue
			}
			inline, warnings, ok := readCall(code, shape.name, match, index)
			if ok {
				return inline, warnings, true
			}
		}
	}
	return nil, nil, false
}

// readCall extracts the rules argument of the call whose "(" ends match
func readCall(code, shape string, match []int, index int) (*InlineValidation, []error, bool) {
	inline := &InlineValidation{Shape: shape}
	open := match[1] - 1

	argList, _, closed := scanner.Inner(code, open)
	args := scanner.SplitTopLevel(argList, ',', scanner.Code)
	if len(args) <= index {
		if closed {
			return nil, nil, false
		}
		return inline, []error{errors.Unparseable(shape+" call", open)}, true
	}

	entries, err := rulesArgument(code, strings.TrimSpace(args[index]), match[0])
	inline.Rules = entries
	if err != nil {
		return inline, []error{err}, true
	}
	return inline, nil, true
}

// rulesArgument parses an array literal argument, or resolves a $variable to
// the array literal last assigned to it before the call.
func rulesArgument(code, arg string, callOffset int) ([]models.RuleEntry, error) {
	if strings.HasPrefix(arg, "$") && isVariable(arg[1:]) {
		literal, ok := php.AssignedArray(code, arg[1:], callOffset)
		if !ok {
			return nil, errors.NotFound("rules variable", arg)
		}
		return rules.ParseRulesArray(literal)
	}
	return rules.ParseRulesArray(arg)
}

func isVariable(name string) bool {
	if name == "" || name == "this" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
