// Package resolver maps PHP class names to source files and reads Form
// Request rules, caching hits and misses for the lifetime of one instance.
package resolver

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/php"
	"github.com/chrisbeaver/outbound/internal/rules"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// DefaultRequestsDir is where Laravel generates Form Requests
const DefaultRequestsDir = "app/Http/Requests"

// maxParents bounds the walk up a class hierarchy looking for rules()
const maxParents = 5

// Config locates the project on the filesystem
type Config struct {
	Root        string
	RequestsDir string   // relative to Root
	Exclude     []string // extra directory names skipped by the tree search
}

// Resolver resolves class names against one project tree.
// Safe for concurrent use; concurrent lookups of the same class share one search.
type Resolver struct {
	cfg    Config
	reader *utils.FileReader
	files  *utils.FileProcessor
	logger *logrus.Entry

	mappingsOnce sync.Once
	mappings     []namespaceMapping

	paths    *utils.Cache[string, string]
	requests *utils.Cache[string, *models.ResolvedFormRequest]
	inflight singleflight.Group
}

// New creates a resolver with empty caches
func New(fs afero.Fs, cfg Config, logger *logrus.Entry) *Resolver {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.RequestsDir == "" {
		cfg.RequestsDir = DefaultRequestsDir
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Resolver{
		cfg:      cfg,
		reader:   utils.NewFileReader(fs),
		files:    utils.NewFileProcessor(fs),
		logger:   logger.WithField("component", "resolver"),
		paths:    utils.NewCache[string, string](),
		requests: utils.NewCache[string, *models.ResolvedFormRequest](),
	}
}

// ClassPath returns the file declaring class. Lookup order: composer PSR-4
// path, the conventional requests directory, then a search of the project tree
// that skips vendored directories. Both hits and misses are cached.
func (r *Resolver) ClassPath(class string) (string, error) {
	class = normalize(class)
	if class == "" {
		return "", errors.NotFound("class", class)
	}

	v, _, _ := r.inflight.Do("path:"+class, func() (interface{}, error) {
		return r.paths.GetOrLoad(class, func() string { return r.locate(class) }), nil
	})

	path := v.(string)
	if path == "" {
		return "", errors.NotFound("class file", class)
	}
	return path, nil
}

// ReadClass returns the path and source text of the file declaring class
func (r *Resolver) ReadClass(class string) (string, string, error) {
	path, err := r.ClassPath(class)
	if err != nil {
		return "", "", err
	}
	source, err := r.reader.ReadFile(path)
	if err != nil {
		return path, "", err
	}
	return path, source, nil
}

// FormRequest returns the rules declared by a Form Request's rules() method.
// A class that cannot be found yields NotFound; the miss is cached too.
func (r *Resolver) FormRequest(class string) (*models.ResolvedFormRequest, error) {
	class = normalize(class)

	v, _, _ := r.inflight.Do("request:"+class, func() (interface{}, error) {
		return r.requests.GetOrLoad(class, func() *models.ResolvedFormRequest {
			return r.loadFormRequest(class)
		}), nil
	})

	resolved := v.(*models.ResolvedFormRequest)
	if resolved == nil {
		return nil, errors.NotFound("form request", class)
	}
	return resolved, nil
}

// Stats reports cache usage
func (r *Resolver) Stats() map[string]utils.CacheStats {
	return map[string]utils.CacheStats{
		"class_paths":   r.paths.GetStats(),
		"form_requests": r.requests.GetStats(),
		"file_contents": r.reader.GetCacheStats(),
	}
}

func (r *Resolver) locate(class string) string {
	r.mappingsOnce.Do(func() {
		r.mappings = loadMappings(r.reader, r.cfg.Root)
	})

	for _, candidate := range candidates(r.mappings, r.cfg.Root, class) {
		if r.reader.Exists(candidate) {
			return candidate
		}
	}

	base := php.BaseName(class)
	conventional := filepath.Join(r.cfg.Root, r.cfg.RequestsDir, base+".php")
	if r.reader.Exists(conventional) {
		return conventional
	}

	return r.search(class, base)
}

// search walks the project tree for <Base>.php, preferring the file whose
// declared namespace matches the class.
func (r *Resolver) search(class, base string) string {
	matches, err := r.files.WalkFiles(r.cfg.Root, utils.FileWalkOptions{
		FileFilter:      utils.NamedFileFilter(base + ".php"),
		DirectoryFilter: utils.DefaultDirectoryFilter(r.cfg.Exclude...),
		SkipErrors:      true,
	})
	if err != nil || len(matches) == 0 {
		r.logger.WithField("class", class).Debug("class file not found")
		return ""
	}

	for _, match := range matches {
		source, err := r.reader.ReadFile(match)
		if err == nil && php.ParseHeader(source).FQCN() == class {
			return match
		}
	}
	return matches[0]
}

func (r *Resolver) loadFormRequest(class string) *models.ResolvedFormRequest {
	logger := r.logger.WithField("class", class)

	current := class
	for depth := 0; depth <= maxParents; depth++ {
		path, source, err := r.ReadClass(current)
		if err != nil {
			if current == class {
				logger.WithError(err).Debug("form request unavailable")
				return nil
			}
			break // parent outside the project
		}

		header := php.ParseHeader(source)
		method, err := php.ExtractMethod(source, "rules")
		if errors.IsNotFound(err) {
			if header.Extends == "" || isFramework(header.Extends) {
				break
			}
			current = header.Extends
			continue
		}

		resolved := &models.ResolvedFormRequest{
			Source: models.ValidationSource{Kind: models.SourceFormRequest, Class: class, Path: path},
		}
		resolved.Rules, resolved.Warning = rulesFromBody(method)
		if resolved.Warning != nil {
			logger.WithError(resolved.Warning).Warn("form request rules read partially")
		}
		return resolved
	}

	path, _ := r.ClassPath(class)
	return &models.ResolvedFormRequest{
		Source:  models.ValidationSource{Kind: models.SourceFormRequest, Class: class, Path: path},
		Warning: errors.NotFound("method", class+"::rules"),
	}
}

var returnVariable = regexp.MustCompile(`\breturn\s+\$(\w+)\s*;`)

// rulesFromBody reads the array returned by rules(), either directly or via
// a variable assigned earlier in the body.
func rulesFromBody(method *php.Method) ([]models.RuleEntry, error) {
	if literal, ok := php.ReturnedArray(method.Body); ok {
		return rules.ParseRulesArray(literal)
	}

	if m := returnVariable.FindStringSubmatchIndex(method.Body); m != nil {
		name := method.Body[m[2]:m[3]]
		if literal, ok := php.AssignedArray(method.Body, name, m[0]); ok {
			return rules.ParseRulesArray(literal)
		}
	}

	if !method.Complete {
		return nil, errors.Unparseable("rules()", method.Offset)
	}
	return nil, errors.New(errors.UnparseableCode, "rules() does not return an array literal").
		WithSuggestion("Return the rules as a literal array")
}

func isFramework(class string) bool {
	return strings.HasPrefix(class, `Illuminate\`)
}

func normalize(class string) string {
	return strings.TrimPrefix(strings.TrimSpace(class), `\`)
}
