package resolver

import (
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
)

// countingFs counts every filesystem touch made through it
type countingFs struct {
	afero.Fs
	opens atomic.Int64
	stats atomic.Int64
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.opens.Add(1)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *countingFs) Stat(name string) (os.FileInfo, error) {
	c.stats.Add(1)
	return c.Fs.Stat(name)
}

func (c *countingFs) touches() int64 {
	return c.opens.Load() + c.stats.Load()
}

const storePostRequest = `<?php

namespace App\Http\Requests;

use Illuminate\Foundation\Http\FormRequest;
use Illuminate\Validation\Rule;

class StorePostRequest extends FormRequest
{
    public function authorize(): bool
    {
        return true;
    }

    public function rules(): array
    {
        return [
            'title' => 'required|string|max:255',
            'status' => ['required', Rule::in(['draft', 'published'])],
            'tags.*' => 'string',
        ];
    }
}
`

func project(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func newResolver(fs afero.Fs) *Resolver {
	logger, _ := test.NewNullLogger()
	return New(fs, Config{Root: "/project"}, logrus.NewEntry(logger))
}

func TestFormRequest(t *testing.T) {
	fs := project(t, map[string]string{
		"/project/app/Http/Requests/StorePostRequest.php": storePostRequest,
	})
	r := newResolver(fs)

	resolved, err := r.FormRequest(`\App\Http\Requests\StorePostRequest`)
	require.NoError(t, err)
	require.NoError(t, resolved.Warning)

	assert.Equal(t, models.SourceFormRequest, resolved.Source.Kind)
	assert.Equal(t, `App\Http\Requests\StorePostRequest`, resolved.Source.Class)
	assert.Equal(t, "/project/app/Http/Requests/StorePostRequest.php", resolved.Source.Path)

	require.Len(t, resolved.Rules, 3)
	assert.Equal(t, "title", resolved.Rules[0].Key)
	assert.Equal(t, []string{"required", "string", "max:255"}, resolved.Rules[0].Rules)
	assert.Equal(t, "tags.*", resolved.Rules[2].Key)
}

func TestFormRequest_CachedWithinOneInstance(t *testing.T) {
	fs := &countingFs{Fs: project(t, map[string]string{
		"/project/app/Http/Requests/StorePostRequest.php": storePostRequest,
	})}
	r := newResolver(fs)

	first, err := r.FormRequest(`App\Http\Requests\StorePostRequest`)
	require.NoError(t, err)
	afterFirst := fs.touches()
	require.Positive(t, afterFirst)

	second, err := r.FormRequest(`App\Http\Requests\StorePostRequest`)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, afterFirst, fs.touches(), "second resolve must not touch the filesystem")
	assert.Equal(t, int64(1), r.Stats()["form_requests"].Hits)
}

func TestFormRequest_MissIsCachedAndFreshInstanceStartsEmpty(t *testing.T) {
	fs := &countingFs{Fs: project(t, map[string]string{
		"/project/app/Http/Controllers/PostController.php": "<?php class PostController {}",
	})}
	r := newResolver(fs)

	_, err := r.FormRequest(`App\Http\Requests\UpdatePostRequest`)
	require.True(t, errors.IsNotFound(err))
	afterMiss := fs.touches()

	// the class appears after the first pass
	require.NoError(t, afero.WriteFile(fs.Fs, "/project/app/Http/Requests/UpdatePostRequest.php",
		[]byte(`<?php
namespace App\Http\Requests;
class UpdatePostRequest extends FormRequest {
    public function rules() { return ['title' => 'sometimes|string']; }
}`), 0644))

	_, err = r.FormRequest(`App\Http\Requests\UpdatePostRequest`)
	assert.True(t, errors.IsNotFound(err), "a cached miss is served for the rest of the pass")
	assert.Equal(t, afterMiss, fs.touches())

	fresh := newResolver(fs)
	resolved, err := fresh.FormRequest(`App\Http\Requests\UpdatePostRequest`)
	require.NoError(t, err)
	require.Len(t, resolved.Rules, 1)
	assert.Equal(t, "title", resolved.Rules[0].Key)
}

func TestClassPath_LookupOrder(t *testing.T) {
	fs := project(t, map[string]string{
		"/project/composer.json": `{
			"autoload": {"psr-4": {"App\\": "app/", "Domain\\": ["src/Domain/", "lib/"]}},
			"autoload-dev": {"psr-4": {"Tests\\": "tests/"}}
		}`,
		"/project/lib/Billing/ChargeRequest.php":             "<?php namespace Domain\\Billing; class ChargeRequest {}",
		"/project/app/Http/Requests/LegacyRequest.php":       "<?php class LegacyRequest {}",
		"/project/modules/Admin/Requests/BanUserRequest.php": "<?php\nnamespace Modules\\Admin\\Requests;\nclass BanUserRequest {}",
		"/project/modules/Other/BanUserRequest.php":          "<?php\nnamespace Other;\nclass BanUserRequest {}",
		"/project/vendor/acme/VendorRequest.php":             "<?php class VendorRequest {}",
	})
	r := newResolver(fs)

	path, err := r.ClassPath(`Domain\Billing\ChargeRequest`)
	require.NoError(t, err)
	assert.Equal(t, "/project/lib/Billing/ChargeRequest.php", path, "psr-4 list directories are all tried")

	path, err = r.ClassPath(`App\Http\Requests\Legacy\LegacyRequest`)
	require.NoError(t, err)
	assert.Equal(t, "/project/app/Http/Requests/LegacyRequest.php", path, "conventional requests directory")

	path, err = r.ClassPath(`Modules\Admin\Requests\BanUserRequest`)
	require.NoError(t, err)
	assert.Equal(t, "/project/modules/Admin/Requests/BanUserRequest.php", path, "search prefers the matching namespace")

	_, err = r.ClassPath(`Acme\VendorRequest`)
	assert.True(t, errors.IsNotFound(err), "vendor is never searched")
}

func TestFormRequest_InheritedRules(t *testing.T) {
	fs := project(t, map[string]string{
		"/project/app/Http/Requests/BasePostRequest.php": `<?php
namespace App\Http\Requests;
class BasePostRequest extends FormRequest {
    public function rules() {
        $rules = ['title' => 'required'];
        return $rules;
    }
}`,
		"/project/app/Http/Requests/StoreDraftRequest.php": `<?php
namespace App\Http\Requests;
class StoreDraftRequest extends BasePostRequest {
    public function authorize() { return true; }
}`,
	})
	r := newResolver(fs)

	resolved, err := r.FormRequest(`App\Http\Requests\StoreDraftRequest`)
	require.NoError(t, err)
	require.NoError(t, resolved.Warning)
	require.Len(t, resolved.Rules, 1)
	assert.Equal(t, "title", resolved.Rules[0].Key)
	assert.Equal(t, `App\Http\Requests\StoreDraftRequest`, resolved.Source.Class)
}

func TestFormRequest_PartialRules(t *testing.T) {
	fs := project(t, map[string]string{
		"/project/app/Http/Requests/MergedRequest.php": `<?php
namespace App\Http\Requests;
class MergedRequest extends FormRequest {
    public function rules() { return array_merge(parent::rules(), ['x' => 'int']); }
}`,
		"/project/app/Http/Requests/TruncatedRequest.php": `<?php
namespace App\Http\Requests;
class TruncatedRequest extends FormRequest {
    public function rules() { return ['title' => 'required', 'tags' => ['array',`,
		"/project/app/Http/Requests/NoRulesRequest.php": `<?php
namespace App\Http\Requests;
class NoRulesRequest extends FormRequest {}`,
	})
	r := newResolver(fs)

	for _, class := range []string{"MergedRequest", "TruncatedRequest", "NoRulesRequest"} {
		resolved, err := r.FormRequest(`App\Http\Requests\` + class)
		require.NoError(t, err, class)
		assert.Error(t, resolved.Warning, class)
		assert.Empty(t, resolved.Rules, class)
	}
}

func TestFormRequest_ConcurrentLookups(t *testing.T) {
	fs := project(t, map[string]string{
		"/project/app/Http/Requests/StorePostRequest.php": storePostRequest,
	})
	r := newResolver(fs)

	var wg sync.WaitGroup
	results := make([]*models.ResolvedFormRequest, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.FormRequest(`App\Http\Requests\StorePostRequest`)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Len(t, res.Rules, 3)
	}
}

func TestParseComposer(t *testing.T) {
	mappings, err := parseComposer([]byte(`{"autoload": {"psr-4": {"App\\": "app/", "App\\Domain\\": "domain"}}}`))
	require.NoError(t, err)

	assert.Equal(t, []namespaceMapping{
		{Prefix: `App\Domain\`, Dir: "domain"},
		{Prefix: `App\`, Dir: "app"},
	}, mappings)

	_, err = parseComposer([]byte(`{not json`))
	assert.Error(t, err)
}
