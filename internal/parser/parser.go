// Package parser turns route definitions into request parameter schemas.
//
// A Parser owns one resolver cache. Build a new Parser to pick up source
// changes made since the last pass.
package parser

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/locator"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/php"
	"github.com/chrisbeaver/outbound/internal/resolver"
	"github.com/chrisbeaver/outbound/internal/routes"
	"github.com/chrisbeaver/outbound/internal/schema"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// DefaultWorkers is the bulk parse concurrency when none is configured
const DefaultWorkers = 4

// maxParents bounds the walk up a controller hierarchy for an inherited action
const maxParents = 5

// Config holds everything a parse pass needs to know about the project
type Config struct {
	Root        string
	RequestsDir string
	Exclude     []string
	Workers     int
}

// Parser parses routes against one project tree
type Parser struct {
	cfg      Config
	resolver *resolver.Resolver
	logger   *logrus.Entry
}

// New creates a parser with a fresh resolver cache
func New(fs afero.Fs, cfg Config, logger *logrus.Entry) *Parser {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Parser{
		cfg: cfg,
		resolver: resolver.New(fs, resolver.Config{
			Root:        cfg.Root,
			RequestsDir: cfg.RequestsDir,
			Exclude:     cfg.Exclude,
		}, logger),
		logger: logger.WithField("component", "parser"),
	}
}

// Stats reports the resolver cache usage of this parser
func (p *Parser) Stats() map[string]utils.CacheStats {
	return p.resolver.Stats()
}

// ParseRoutes parses every route, at most cfg.Workers at a time. Results are in
// input order. Per-route failures are recorded on the route; only cancellation
// of ctx is returned.
func (p *Parser) ParseRoutes(ctx context.Context, defs []models.RouteDefinition) ([]*models.ParsedRoute, error) {
	results := make([]*models.ParsedRoute, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, def := range defs {
		if gctx.Err() != nil {
			break
		}
		i, def := i, def
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.ParseRoute(def)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseRoute parses one route. It never fails: anything that cannot be
// understood leaves the route with its path parameters only and a warning.
func (p *Parser) ParseRoute(def models.RouteDefinition) *models.ParsedRoute {
	parsed := models.NewParsedRoute(def)
	logger := p.logger.WithFields(logrus.Fields{
		"route":  def.Key(),
		"action": def.Action,
	})

	entries, warnings := p.ruleEntries(def, parsed)
	for _, warning := range warnings {
		record(logger, parsed, warning)
	}

	parsed.RequestParams = append(parsed.RequestParams, schema.Build(entries)...)
	return parsed
}

func (p *Parser) ruleEntries(def models.RouteDefinition, parsed *models.ParsedRoute) ([]models.RuleEntry, []error) {
	action, err := routes.ParseAction(def.Action)
	if err != nil {
		return nil, []error{err}
	}
	if action == nil {
		return nil, nil
	}

	method, header, path, err := p.controllerMethod(action)
	if err != nil {
		return nil, []error{err}
	}

	var warnings []error
	if !method.Complete {
		warnings = append(warnings, errors.Unparseable(action.String(), method.Offset))
	}

	decision := locator.Locate(method, header)
	warnings = append(warnings, decision.Warnings...)

	switch validation := decision.Validation.(type) {
	case *locator.InlineValidation:
		parsed.Source = &models.ValidationSource{
			Kind:  models.SourceInline,
			Path:  path,
			Shape: validation.Shape,
		}
		return validation.Rules, warnings

	case *locator.FormRequestValidation:
		parsed.FormRequestClass = validation.Class
		resolved, err := p.resolver.FormRequest(validation.Class)
		if err != nil {
			return nil, append(warnings, err)
		}
		source := resolved.Source
		parsed.FormRequestPath = source.Path
		parsed.Source = &source
		if resolved.Warning != nil {
			warnings = append(warnings, resolved.Warning)
		}
		return resolved.Rules, warnings
	}

	return nil, warnings
}

// controllerMethod extracts the action method, following extends when the
// method is inherited from a parent controller in the project.
func (p *Parser) controllerMethod(action *routes.Action) (*php.Method, php.Header, string, error) {
	class := action.Class
	for depth := 0; depth <= maxParents; depth++ {
		path, source, err := p.resolver.ReadClass(class)
		if err != nil {
			if depth > 0 {
				break
			}
			return nil, php.Header{}, "", err
		}

		header := php.ParseHeader(source)
		method, err := php.ExtractMethod(source, action.Method)
		if err == nil {
			return method, header, path, nil
		}
		if !errors.IsNotFound(err) || header.Extends == "" {
			break
		}
		class = header.Extends
	}

	return nil, php.Header{}, "", errors.NotFound("method", action.String())
}

func record(logger *logrus.Entry, parsed *models.ParsedRoute, warning error) {
	parsed.Warnings = append(parsed.Warnings, warning.Error())

	code := errors.CodeOf(warning)
	entry := logger.WithField("code", code.String()).WithError(warning)
	if code == errors.NotFoundCode {
		entry.Debug("no validation source")
		return
	}
	entry.Warn("route parsed with warnings")
}
