package locator

import "regexp"

// Shape names the inline validation call forms, in the order they are tried
const (
	ShapeRequestValidate       = "request-validate"        // $request->validate([...])
	ShapeControllerValidate    = "controller-validate"     // $this->validate($request, [...])
	ShapeValidatorFactory      = "validator-factory"       // Validator::make($data, [...]) or validator($data, [...])
	ShapeStaticRequestValidate = "static-request-validate" // request()->validate([...]) or Request::validate([...])
	ShapeValidateWithBag       = "validate-with-bag"       // $request->validateWithBag('bag', [...])
)

// callShape describes one recognizable validation call
type callShape struct {
	name    string
	pattern *regexp.Regexp
	// rulesArg returns the index of the rules argument, or -1 to reject the match
	rulesArg func(body string, match []int) int
}

func fixedArg(i int) func(string, []int) int {
	return func(string, []int) int { return i }
}

// precededBy reports whether the byte before the match is one of chars
func precededBy(body string, match []int, chars string) bool {
	if match[0] == 0 {
		return false
	}
	prev := body[match[0]-1]
	for i := 0; i < len(chars); i++ {
		if prev == chars[i] {
			return true
		}
	}
	return false
}

var shapes = []callShape{
	{
		name:    ShapeRequestValidate,
		pattern: regexp.MustCompile(`\$(\w+)\s*->\s*validate\s*\(`),
		rulesArg: func(body string, match []int) int {
			if body[match[2]:match[3]] == "this" {
				return -1
			}
			return 0
		},
	},
	{
		name:     ShapeControllerValidate,
		pattern:  regexp.MustCompile(`\$this\s*->\s*validate\s*\(`),
		rulesArg: fixedArg(1),
	},
	{
		name:    ShapeValidatorFactory,
		pattern: regexp.MustCompile(`(?:\bValidator\s*::\s*make|\bvalidator)\s*\(`),
		rulesArg: func(body string, match []int) int {
			if precededBy(body, match, "$>:") {
				return -1
			}
			return 1
		},
	},
	{
		name:    ShapeStaticRequestValidate,
		pattern: regexp.MustCompile(`(?:\brequest\s*\(\s*\)\s*->|\bRequest\s*::\s*)\s*validate\s*\(`),
		rulesArg: func(body string, match []int) int {
			if precededBy(body, match, "$>:") {
				return -1
			}
			return 0
		},
	},
	{
		name:    ShapeValidateWithBag,
		pattern: regexp.MustCompile(`\$(\w+)\s*->\s*validateWithBag\s*\(`),
		rulesArg: func(body string, match []int) int {
			if body[match[2]:match[3]] == "this" {
				return 2 // $this->validateWithBag('bag', $request, [...])
			}
			return 1
		},
	},
}
