// Package cli implements the outbound command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/logging"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/parser"
	"github.com/chrisbeaver/outbound/internal/resolver"
	"github.com/chrisbeaver/outbound/internal/routes"
	"github.com/chrisbeaver/outbound/internal/utils"
)

// ArtisanFunc lists routes by running artisan in the project root
type ArtisanFunc func(ctx context.Context, root, php string) ([]models.RouteDefinition, error)

// App carries the command dependencies; tests swap them for in-memory ones
type App struct {
	Fs      afero.Fs
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Artisan ArtisanFunc

	viper      *viper.Viper
	configFile string
	quiet      bool
	verbose    int

	config      Config
	logger      *logrus.Logger
	diagnostics *utils.DiagnosticSystem
}

// NewApp wires the real filesystem, standard streams and artisan
func NewApp() *App {
	return &App{
		Fs:      afero.NewOsFs(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Artisan: routes.Artisan,
	}
}

// Execute runs the command line and reports a failure on stderr
func Execute(ctx context.Context, args []string) error {
	app := NewApp()
	cmd := app.Command()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		NewReporter(app.Stderr, app.verbose > 0).ReportError(err)
	}
	return err
}

// Command builds the root command
func (a *App) Command() *cobra.Command {
	a.viper = viper.New()

	root := &cobra.Command{
		Use:   "outbound",
		Short: "Infer request schemas from Laravel validation rules",
		Long: `outbound reads a Laravel application's route list, finds the validation
rules each controller action applies (inline validate() calls or Form Request
classes) and reports the request parameters they describe, with example payloads.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Configuration file (default <root>/.outbound.yaml)")
	flags.String("root", ".", "Laravel project root")
	flags.String("routes", "", `Route list JSON/YAML file, "-" for stdin (default: run artisan route:list)`)
	flags.String("php", "php", "PHP binary used to run artisan")
	flags.Int("workers", parser.DefaultWorkers, "Routes parsed concurrently")
	flags.String("format", FormatJSON, "Output format (json, yaml)")
	flags.String("requests-dir", resolver.DefaultRequestsDir, "Form Request directory, relative to root")
	flags.StringSlice("exclude", nil, "Extra directory names skipped when searching for classes")
	flags.String("log-level", string(logging.LevelWarn), "Log level (debug, info, warn, error)")
	flags.String("log-format", string(logging.FormatText), "Log format (text, json)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only show errors")
	flags.CountVarP(&a.verbose, "verbose", "v", "Show per-route detail (repeat for more)")

	for key, flag := range map[string]string{
		"root":         "root",
		"routes":       "routes",
		"php":          "php",
		"workers":      "workers",
		"format":       "format",
		"requests_dir": "requests-dir",
		"exclude":      "exclude",
		"log.level":    "log-level",
		"log.format":   "log-format",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(a.parseCommand(), a.exampleCommand(), a.serveCommand())
	return root
}

func (a *App) setup(*cobra.Command, []string) error {
	cfg, err := LoadConfig(a.viper, a.Fs, a.configFile)
	if err != nil {
		return err
	}

	cfg.Log.Output = a.Stderr
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.config = cfg
	a.logger = logger
	a.diagnostics = utils.NewDiagnosticSystem(utils.LevelFromVerbosity(a.quiet, a.verbose))
	if a.Stderr == os.Stderr {
		a.diagnostics.UseStderr()
	} else {
		a.diagnostics.WithOutput(a.Stderr)
	}
	return nil
}

// loadRoutes reads the configured route feed
func (a *App) loadRoutes(ctx context.Context) ([]models.RouteDefinition, error) {
	switch source := a.config.Routes; source {
	case StdinRoutes:
		return routes.Decode(a.Stdin, routes.FormatJSON)
	case "":
		a.logger.WithField("root", a.config.Root).Debug("running artisan route:list")
		return a.Artisan(ctx, a.config.Root, a.config.PHP)
	default:
		if !filepath.IsAbs(source) {
			if ok, _ := afero.Exists(a.Fs, source); !ok {
				source = filepath.Join(a.config.Root, source)
			}
		}
		return routes.Load(a.Fs, source)
	}
}

func (a *App) newParser() *parser.Parser {
	return parser.New(a.Fs, a.config.ParserConfig(), logrus.NewEntry(a.logger))
}

// parseAll loads the feed and runs one parse pass
func (a *App) parseAll(ctx context.Context) ([]*models.ParsedRoute, *parser.Parser, error) {
	defs, err := a.loadRoutes(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ConfigurationCode, "cannot read the route list", err).
			WithSuggestion("Pass --routes with a file produced by `php artisan route:list --json`")
	}

	a.diagnostics.Verbose("parsing %d route definitions with %d workers", len(defs), a.config.Workers)
	p := a.newParser()
	parsed, err := p.ParseRoutes(ctx, defs)
	if err != nil {
		return nil, nil, err
	}
	return parsed, p, nil
}

// write encodes v to stdout in the configured format
func (a *App) write(v interface{}) error {
	if a.config.Format == FormatYAML {
		enc := yaml.NewEncoder(a.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
