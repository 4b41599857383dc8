package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
)

func TestParseRuleValue(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected []string
	}{
		{
			name:     "pipe string",
			expr:     `'required|string|max:255'`,
			expected: []string{"required", "string", "max:255"},
		},
		{
			name:     "double quoted pipe string",
			expr:     `"nullable|in:draft,published"`,
			expected: []string{"nullable", "in:draft,published"},
		},
		{
			name:     "list with nested builder",
			expr:     `[Rule::in(['a','b']), 'required']`,
			expected: []string{"Rule::in(['a','b'])", "required"},
		},
		{
			name:     "array() list",
			expr:     `array('required', 'email')`,
			expected: []string{"required", "email"},
		},
		{
			name:     "list element with pipes",
			expr:     `['required|integer', 'min:1']`,
			expected: []string{"required", "integer", "min:1"},
		},
		{
			name:     "regex keeps its alternation",
			expr:     `'required|regex:/^(a|b)$/'`,
			expected: []string{"required", "regex:/^(a|b)$/"},
		},
		{
			name:     "apostrophe inside a pipe string",
			expr:     `"regex:/^[^']+$/|required|string"`,
			expected: []string{"regex:/^[^']+$/", "required", "string"},
		},
		{
			name:     "apostrophe inside an in list",
			expr:     `"in:it's,other|required"`,
			expected: []string{"in:it's,other", "required"},
		},
		{
			name:     "double quote inside a single quoted pipe string",
			expr:     `'not_regex:/"/|nullable|string'`,
			expected: []string{`not_regex:/"/`, "nullable", "string"},
		},
		{
			name:     "hash comment after the value",
			expr:     "'required|email' # login address",
			expected: []string{"required", "email"},
		},
		{
			name:     "opaque expression",
			expr:     `$this->emailRules()`,
			expected: []string{"$this->emailRules()"},
		},
		{
			name:     "empty",
			expr:     `  `,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRuleValue(tt.expr))
		})
	}
}

func TestSplitPipes_ExactTokens(t *testing.T) {
	tests := []struct {
		rules    string
		expected []string
	}{
		{"required|string|max:255", []string{"required", "string", "max:255"}},
		{"regex:/^[^']+$/|required|string", []string{"regex:/^[^']+$/", "required", "string"}},
		{`regex:/^"[a-z]+"$/|required`, []string{`regex:/^"[a-z]+"$/`, "required"}},
		{"in:it's,other|required", []string{"in:it's,other", "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.rules, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitPipes(tt.rules))
		})
	}
}

func TestParseRuleList_NestedCallIsOneToken(t *testing.T) {
	tokens := ParseRuleList(`Rule::in(['a','b']), 'required'`)

	require.Len(t, tokens, 2)
	assert.Equal(t, "Rule::in(['a','b'])", tokens[0])
	assert.Equal(t, "required", tokens[1])
}

func TestParseRuleMap(t *testing.T) {
	inner := `
		'title' => 'required|string|max:255', // headline
		'status' => ['required', Rule::in(['draft', 'published'])],
		'tags.*' => 'string',
		$dynamic => 'ignored',
		'title' => 'sometimes|string',
		'no arrow',
	`

	entries := ParseRuleMap(inner)

	require.Len(t, entries, 3)
	assert.Equal(t, models.RuleEntry{Key: "title", Rules: []string{"sometimes", "string"}}, entries[0])
	assert.Equal(t, "status", entries[1].Key)
	assert.Equal(t, []string{"required", "Rule::in(['draft', 'published'])"}, entries[1].Rules)
	assert.Equal(t, models.RuleEntry{Key: "tags.*", Rules: []string{"string"}}, entries[2])
}

func TestParseRulesArray(t *testing.T) {
	entries, err := ParseRulesArray(`['name' => 'required', 'age' => 'integer']`)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = ParseRulesArray(`array('name' => 'required')`)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = ParseRulesArray("[\n  # user's display name\n  'name' => 'required|string',\n  'email' => 'required|email', # login\n]")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.RuleEntry{Key: "name", Rules: []string{"required", "string"}}, entries[0])
	assert.Equal(t, models.RuleEntry{Key: "email", Rules: []string{"required", "email"}}, entries[1])

	entries, err = ParseRulesArray(`['name' => 'required', 'tags' => ['array'`)
	assert.True(t, errors.IsUnparseable(err))
	assert.Empty(t, entries)

	_, err = ParseRulesArray(`$rules`)
	assert.True(t, errors.IsUnparseable(err))
}

func TestInferType(t *testing.T) {
	tests := []struct {
		tokens   []string
		expected models.ParamType
	}{
		{[]string{"numeric", "integer"}, models.TypeInteger},
		{[]string{"integer", "numeric"}, models.TypeInteger},
		{[]string{"in:draft,published"}, models.TypeString},
		{[]string{"required", "string", "max:255"}, models.TypeString},
		{[]string{"required", "image", "max:2048"}, models.TypeFile},
		{[]string{"File::types(['pdf'])"}, models.TypeFile},
		{[]string{"boolean", "integer"}, models.TypeBoolean},
		{[]string{"accepted"}, models.TypeBoolean},
		{[]string{"numeric", "min:0"}, models.TypeNumber},
		{[]string{"array", "min:1"}, models.TypeArray},
		{[]string{"date_format:Y-m-d"}, models.TypeDate},
		{[]string{"required", "email:rfc,dns"}, models.TypeEmail},
		{[]string{"url"}, models.TypeURL},
		{[]string{"uuid"}, models.TypeUUID},
		{[]string{"json"}, models.TypeObject},
		{[]string{"Rule::in(['a'])"}, models.TypeString},
		{nil, models.TypeString},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferType(tt.tokens), "%v", tt.tokens)
	}
}

func TestRuleName(t *testing.T) {
	assert.Equal(t, "max", RuleName("max:255"))
	assert.Equal(t, "in", RuleName("Rule::in(['a','b'])"))
	assert.Equal(t, "required_if", RuleName("Rule::requiredIf($cond)"))
	assert.Equal(t, "image", RuleName("File::image()->max(1024)"))
	assert.Equal(t, "password", RuleName("Password::min(8)->mixedCase()"))
	assert.Equal(t, "enum", RuleName(`new Enum(Status::class)`))
	assert.Equal(t, "in", RuleName(`new \Illuminate\Validation\Rules\In(['x'])`))
}

func TestEnumValues(t *testing.T) {
	assert.Equal(t, []string{"draft", "published"}, EnumValues([]string{"required", "in:draft,published"}))
	assert.Equal(t, []string{"a", "b"}, EnumValues([]string{"Rule::in(['a', 'b'])"}))
	assert.Equal(t, []string{"x", "y"}, EnumValues([]string{`Rule::in("x", "y")`}))
	assert.Equal(t, []string{"one"}, EnumValues([]string{`in:"one"`, "in:two"}))
	assert.Nil(t, EnumValues([]string{"string"}))
	assert.Equal(t, []string{"it's", "other"}, EnumValues([]string{"in:it's,other"}))
}

func TestEnumValues_ComputedArguments(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected []string
	}{
		{name: "static call", token: "Rule::in(Status::values())", expected: nil},
		{name: "function over a constant", token: "Rule::in(array_keys(self::TYPES))", expected: nil},
		{name: "variable", token: "Rule::in($this->allowed)", expected: nil},
		{name: "literals mixed with a constant", token: "Rule::in(['a', self::B, 'c'])", expected: []string{"a", "c"}},
		{name: "numbers", token: "Rule::in([1, 2.5])", expected: []string{"1", "2.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnumValues([]string{"required", tt.token}))
		})
	}
}

func TestAnalyze_ComputedEnumFallsBackToType(t *testing.T) {
	a := Analyze(ParseRuleValue("['required', Rule::in(Status::values())]"))

	assert.Nil(t, a.Enum)
	assert.True(t, a.Required)
	assert.Equal(t, models.TypeString, a.Type)
}

func TestAnalyze(t *testing.T) {
	a := Analyze([]string{"required", "accepted"})

	assert.Equal(t, models.TypeBoolean, a.Type)
	assert.True(t, a.Required)
	assert.True(t, a.HasDefault)
	assert.Equal(t, true, a.Default)

	a = Analyze([]string{"required_with:email", "declined"})
	assert.False(t, a.Required)
	assert.Equal(t, false, a.Default)
}

func TestMin(t *testing.T) {
	v, ok := Min([]string{"integer", "min:5"})
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = Min([]string{"min:abc"})
	assert.False(t, ok)
}
