package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/php"
)

var header = php.Header{
	Namespace: `App\Http\Controllers`,
	Imports: map[string]string{
		"Request":          `Illuminate\Http\Request`,
		"StorePostRequest": `App\Http\Requests\StorePostRequest`,
	},
}

func method(params, body string) *php.Method {
	return &php.Method{Name: "store", Params: params, Body: body, Complete: true}
}

func TestLocate_InlineShapes(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shape string
		keys  []string
	}{
		{
			name:  "request validate",
			body:  `$data = $request->validate(['title' => 'required|string', 'body' => 'nullable']);`,
			shape: ShapeRequestValidate,
			keys:  []string{"title", "body"},
		},
		{
			name:  "controller validate with request",
			body:  `$this->validate($request, ['email' => 'required|email']);`,
			shape: ShapeControllerValidate,
			keys:  []string{"email"},
		},
		{
			name:  "validator facade",
			body:  `$v = \Validator::make($request->all(), ['age' => 'integer']);`,
			shape: ShapeValidatorFactory,
			keys:  []string{"age"},
		},
		{
			name:  "validator helper",
			body:  `$v = validator($input, array('age' => 'integer'));`,
			shape: ShapeValidatorFactory,
			keys:  []string{"age"},
		},
		{
			name:  "request helper",
			body:  `request()->validate(['q' => 'string']);`,
			shape: ShapeStaticRequestValidate,
			keys:  []string{"q"},
		},
		{
			name:  "request facade",
			body:  `Request::validate(['q' => 'string']);`,
			shape: ShapeStaticRequestValidate,
			keys:  []string{"q"},
		},
		{
			name:  "error bag",
			body:  `$request->validateWithBag('post', ['title' => 'required']);`,
			shape: ShapeValidateWithBag,
			keys:  []string{"title"},
		},
		{
			name:  "controller error bag",
			body:  `$this->validateWithBag('post', $request, ['title' => 'required']);`,
			shape: ShapeValidateWithBag,
			keys:  []string{"title"},
		},
		{
			name:  "rules variable",
			body:  "$rules = ['name' => 'required'];\n$request->validate($rules);",
			shape: ShapeRequestValidate,
			keys:  []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Locate(method("Request $request", tt.body), header)

			inline, ok := decision.Validation.(*InlineValidation)
			require.True(t, ok, "expected inline validation, got %#v", decision.Validation)
			assert.Equal(t, tt.shape, inline.Shape)
			assert.Equal(t, models.SourceInline, inline.Kind())
			assert.Empty(t, decision.Warnings)

			var keys []string
			for _, entry := range inline.Rules {
				keys = append(keys, entry.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestLocate_FirstShapeWins(t *testing.T) {
	body := `
		$extra = Validator::make($request->all(), ['late' => 'string']);
		$request->validate(['early' => 'required']);
	`
	decision := Locate(method("Request $request", body), header)

	inline := decision.Validation.(*InlineValidation)
	assert.Equal(t, ShapeRequestValidate, inline.Shape)
	assert.Equal(t, "early", inline.Rules[0].Key)
}

func TestLocate_IgnoresCommentedCalls(t *testing.T) {
	body := `
		// $request->validate(['old' => 'required']);
		return view('posts.create');
	`
	decision := Locate(method("Request $request", body), header)
	assert.Nil(t, decision.Validation)
	assert.Empty(t, decision.Warnings)
}

func TestLocate_FormRequest(t *testing.T) {
	decision := Locate(method("StorePostRequest $request, Post $post", `return $this->service->store($request);`), header)

	formRequest, ok := decision.Validation.(*FormRequestValidation)
	require.True(t, ok)
	assert.Equal(t, `App\Http\Requests\StorePostRequest`, formRequest.Class)
	assert.Equal(t, "request", formRequest.Param)
	assert.Equal(t, models.SourceFormRequest, formRequest.Kind())
}

func TestLocate_PlainRequestIsNotAFormRequest(t *testing.T) {
	for _, params := range []string{
		"Request $request",
		`\Illuminate\Http\Request $request`,
		`FormRequest $request`,
		"",
	} {
		decision := Locate(method(params, "return 1;"), header)
		assert.Nil(t, decision.Validation, params)
	}
}

func TestLocate_InlineWinsOverFormRequest(t *testing.T) {
	decision := Locate(method(
		"StorePostRequest $request",
		`$request->validate(['title' => 'required']);`,
	), header)

	inline, ok := decision.Validation.(*InlineValidation)
	require.True(t, ok)
	assert.Equal(t, "title", inline.Rules[0].Key)

	require.Len(t, decision.Warnings, 1)
	assert.Equal(t, errors.AmbiguousSourceCode, errors.CodeOf(decision.Warnings[0]))
}

func TestLocate_TruncatedRulesArray(t *testing.T) {
	decision := Locate(method("Request $request", `$request->validate(['title' => 'required', 'tags' => ['array'`), header)

	inline, ok := decision.Validation.(*InlineValidation)
	require.True(t, ok)
	assert.Empty(t, inline.Rules)
	require.Len(t, decision.Warnings, 1)
	assert.True(t, errors.IsUnparseable(decision.Warnings[0]))
}

func TestLocate_UnresolvableVariable(t *testing.T) {
	decision := Locate(method("Request $request", `$request->validate($this->rules());`), header)

	inline := decision.Validation.(*InlineValidation)
	assert.Empty(t, inline.Rules)
	require.Len(t, decision.Warnings, 1)
	assert.True(t, errors.IsUnparseable(decision.Warnings[0]))

	decision = Locate(method("Request $request", `$request->validate($missing);`), header)
	require.Len(t, decision.Warnings, 1)
	assert.True(t, errors.IsNotFound(decision.Warnings[0]))
}

func TestIsFormRequestType(t *testing.T) {
	assert.True(t, IsFormRequestType("StorePostRequest"))
	assert.True(t, IsFormRequestType(`App\Http\Requests\UpdateUserRequest`))
	assert.False(t, IsFormRequestType("Request"))
	assert.False(t, IsFormRequestType("FormRequest"))
	assert.False(t, IsFormRequestType("Post"))
}
