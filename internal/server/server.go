// Package server exposes parsed route schemas and example payloads over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/parser"
	"github.com/chrisbeaver/outbound/internal/schema"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// DefaultAddr binds to loopback only
const DefaultAddr = "127.0.0.1:8787"

// Loader reads the route feed
type Loader func(ctx context.Context) ([]models.RouteDefinition, error)

// ParserFactory builds a parser with empty caches
type ParserFactory func() *parser.Parser

// Config holds configuration for the schema server
type Config struct {
	Addr            string
	EnableCORS      bool
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the loopback address with a 10s shutdown grace period
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		EnableCORS:      true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the result of the most recent parse pass
type Server struct {
	echo      *echo.Echo
	config    Config
	load      Loader
	newParser ParserFactory
	logger    *logrus.Entry

	mu        sync.RWMutex
	routes    []*models.ParsedRoute
	stats     map[string]utils.CacheStats
	refreshed time.Time
}

// New creates a server; call Refresh before serving to populate it
func New(config Config, load Loader, newParser ParserFactory, logger *logrus.Entry) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		config:    config,
		load:      load,
		newParser: newParser,
		logger:    logger.WithField("component", "server"),
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("request")
			return nil
		},
	}))
	if config.EnableCORS {
		e.Use(middleware.CORS())
	}

	api := e.Group("/api")
	api.GET("/routes", s.listRoutes)
	api.GET("/routes/example", s.example)
	api.POST("/refresh", s.refresh)

	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Refresh reloads the feed and parses it with a new parser, so classes
// created since the previous pass are found.
func (s *Server) Refresh(ctx context.Context) error {
	defs, err := s.load(ctx)
	if err != nil {
		return err
	}

	p := s.newParser()
	parsed, err := p.ParseRoutes(ctx, defs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.routes = parsed
	s.stats = p.Stats()
	s.refreshed = time.Now()
	s.mu.Unlock()

	s.logger.WithField("routes", len(parsed)).Info("routes parsed")
	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.config.Addr).Info("serving")
		if err := s.echo.Start(s.config.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

type routesResponse struct {
	Routes      []*models.ParsedRoute       `json:"routes"`
	Count       int                         `json:"count"`
	RefreshedAt time.Time                   `json:"refreshedAt"`
	Cache       map[string]utils.CacheStats `json:"cache,omitempty"`
}

func (s *Server) listRoutes(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	routes := s.routes
	if routes == nil {
		routes = []*models.ParsedRoute{}
	}
	return c.JSON(http.StatusOK, routesResponse{
		Routes:      routes,
		Count:       len(routes),
		RefreshedAt: s.refreshed,
		Cache:       s.stats,
	})
}

type exampleResponse struct {
	Route    string         `json:"route"`
	Name     string         `json:"name,omitempty"`
	Example  schema.Example `json:"example"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (s *Server) example(c echo.Context) error {
	selector := c.QueryParam("name")
	if selector == "" {
		method, uri := c.QueryParam("method"), c.QueryParam("uri")
		if method == "" || uri == "" {
			return errBadRequest("either name, or method and uri, is required")
		}
		if err := utils.ValidateHTTPMethod("method")(strings.ToUpper(method)); err != nil {
			return errBadRequest(err.Error())
		}
		selector = method + " " + uri
	}

	s.mu.RLock()
	route := models.FindRoute(s.routes, selector)
	s.mu.RUnlock()

	if route == nil {
		return errNotFound("no route matches " + selector)
	}
	return c.JSON(http.StatusOK, exampleResponse{
		Route:    route.Key(),
		Name:     route.Name,
		Example:  schema.ExampleFor(route),
		Warnings: route.Warnings,
	})
}

func (s *Server) refresh(c echo.Context) error {
	if err := s.Refresh(c.Request().Context()); err != nil {
		s.logger.WithError(err).Warn("refresh failed")
		return errUnavailable("refresh failed", err.Error())
	}
	return s.listRoutes(c)
}
