package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisbeaver/outbound/internal/errors"
)

const controllerSource = `<?php

namespace App\Http\Controllers;

use App\Http\Requests\StorePostRequest;
use App\Http\Requests\{UpdatePostRequest, Admin\PublishRequest as Publish};
use Illuminate\Http\Request;
use function Illuminate\Support\now;

final class PostController extends Controller
{
    use AuthorizesRequests;

    // public function store(Request $request) { legacy }
    public function store(StorePostRequest $request): JsonResponse
    {
        $post = Post::create($request->validated());
        if ($post) {
            return response()->json(['id' => $post->id, 'note' => '}']);
        }
    }

    public static function make(
        Request $request,
        int $limit = 10,
    ): static {
        return new static();
    }

    function legacy($request)
    {
        return [];
    }

    abstract protected function shape(): array;

    protected function shape2() {
`

func TestExtractMethod(t *testing.T) {
	m, err := ExtractMethod(controllerSource, "store")
	require.NoError(t, err)

	assert.Equal(t, "StorePostRequest $request", m.Params)
	assert.True(t, m.Complete)
	assert.Contains(t, m.Body, "Post::create")
	assert.Contains(t, m.Body, "'note' => '}'")
	assert.NotContains(t, m.Body, "legacy")
}

func TestExtractMethod_HashComments(t *testing.T) {
	source := `<?php
class TagController
{
    #[Authorize('tags')]
    public function update(Request $request)
    {
        # don't close the body early }
        $request->validate(['name' => 'required']); # it's validated here
    }

    public function show() {}
}
`
	m, err := ExtractMethod(source, "update")
	require.NoError(t, err)

	assert.True(t, m.Complete)
	assert.Equal(t, "Request $request", m.Params)
	assert.Contains(t, m.Body, "$request->validate(['name' => 'required']);")
	assert.NotContains(t, m.Body, "don't")
	assert.NotContains(t, m.Body, "function show")
}

func TestExtractMethod_MultiLineSignatureWithReturnType(t *testing.T) {
	m, err := ExtractMethod(controllerSource, "make")
	require.NoError(t, err)

	params := ParseParams(m.Params)
	require.Len(t, params, 2)
	assert.Equal(t, Param{Types: []string{"Request"}, Name: "request"}, params[0])
	assert.Equal(t, Param{Types: []string{"int"}, Name: "limit"}, params[1])
	assert.Contains(t, m.Body, "new static()")
}

func TestExtractMethod_NoModifierFallback(t *testing.T) {
	m, err := ExtractMethod(controllerSource, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "$request", m.Params)
}

func TestExtractMethod_AbstractIsNotFound(t *testing.T) {
	_, err := ExtractMethod(controllerSource, "shape")
	assert.True(t, errors.IsNotFound(err))
}

func TestExtractMethod_Missing(t *testing.T) {
	m, err := ExtractMethod(controllerSource, "destroy")
	assert.Nil(t, m)
	assert.True(t, errors.IsNotFound(err))
}

func TestExtractMethod_UnclosedBodyIsPartial(t *testing.T) {
	m, err := ExtractMethod(controllerSource, "shape2")
	require.NoError(t, err)
	assert.False(t, m.Complete)
	assert.Equal(t, "\n", m.Body)
}

func TestParseHeader(t *testing.T) {
	h := ParseHeader(controllerSource)

	assert.Equal(t, `App\Http\Controllers`, h.Namespace)
	assert.Equal(t, "PostController", h.Class)
	assert.Equal(t, `App\Http\Controllers\PostController`, h.FQCN())
	assert.Equal(t, `App\Http\Controllers\Controller`, h.Extends)

	assert.Equal(t, map[string]string{
		"StorePostRequest":  `App\Http\Requests\StorePostRequest`,
		"UpdatePostRequest": `App\Http\Requests\UpdatePostRequest`,
		"Publish":           `App\Http\Requests\Admin\PublishRequest`,
		"Request":           `Illuminate\Http\Request`,
	}, h.Imports)
}

func TestHeader_Qualify(t *testing.T) {
	h := ParseHeader(controllerSource)

	tests := map[string]string{
		"StorePostRequest":       `App\Http\Requests\StorePostRequest`,
		"Publish":                `App\Http\Requests\Admin\PublishRequest`,
		`\App\Http\Requests\X`:   `App\Http\Requests\X`,
		"LocalRequest":           `App\Http\Controllers\LocalRequest`,
		`Requests\NestedRequest`: `App\Http\Controllers\Requests\NestedRequest`,
		`StorePostRequest\Inner`: `App\Http\Requests\StorePostRequest\Inner`,
	}
	for written, expected := range tests {
		assert.Equal(t, expected, h.Qualify(written), written)
	}

	assert.Equal(t, "Foo", Header{}.Qualify("Foo"))
}

func TestParseParams(t *testing.T) {
	params := ParseParams(`#[CurrentUser] User $user, ?StoreUserRequest $request = null, Foo|Bar ...$rest, private readonly array &$opts = []`)

	require.Len(t, params, 4)
	assert.Equal(t, Param{Types: []string{"User"}, Name: "user"}, params[0])
	assert.Equal(t, Param{Types: []string{"StoreUserRequest"}, Name: "request"}, params[1])
	assert.Equal(t, Param{Types: []string{"Foo", "Bar"}, Name: "rest"}, params[2])
	assert.Equal(t, Param{Types: []string{"array"}, Name: "opts"}, params[3])

	assert.Empty(t, ParseParams(""))
}

func TestReturnedArray(t *testing.T) {
	body := `
        // return ['ignored' => 'x'];
        $base = 'return [nope]';
        if ($this->isMethod('patch')) {
            return array_merge($this->base(), []);
        }
        return [
            'title' => 'required|string',
        ];
    `
	literal, ok := ReturnedArray(body)
	require.True(t, ok)
	assert.Equal(t, "[\n            'title' => 'required|string',\n        ]", literal)

	literal, ok = ReturnedArray(`return array('a' => 'required');`)
	require.True(t, ok)
	assert.Equal(t, `array('a' => 'required')`, literal)

	literal, ok = ReturnedArray(`return ['a' => ['required', `)
	require.True(t, ok)
	assert.Equal(t, `['a' => ['required', `, literal)

	_, ok = ReturnedArray(`return $this->rules;`)
	assert.False(t, ok)
}

func TestAssignedArray(t *testing.T) {
	body := `
        $rules = ['name' => 'required'];
        if ($strict) {
            $rules = ['name' => 'required|min:3'];
        }
        $request->validate($rules);
        $rules = ['late' => 'string'];
    `
	call := len(body) - len(`$rules = ['late' => 'string'];
    `)

	literal, ok := AssignedArray(body, "rules", call)
	require.True(t, ok)
	assert.Equal(t, `['name' => 'required|min:3']`, literal)

	_, ok = AssignedArray(body, "missing", -1)
	assert.False(t, ok)

	_, ok = AssignedArray(`if ($rules == []) {}`, "rules", -1)
	assert.False(t, ok)
}
