package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/parser"
	"github.com/chrisbeaver/outbound/internal/schema"
	"github.com/chrisbeaver/outbound/internal/server"
)

func (a *App) parseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Print the inferred request parameters of every route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, p, err := a.parseAll(cmd.Context())
			if err != nil {
				return err
			}

			if a.verbose > 0 {
				a.diagnostics.Section("Routes")
				for _, route := range parsed {
					a.diagnostics.Route(route)
				}
			}
			a.summarize(parsed, p)

			return a.write(parsed)
		},
	}
}

func (a *App) exampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example <route-name | METHOD uri>",
		Short: "Print an example request payload for one route",
		Example: `  outbound example posts.store
  outbound example "PUT /api/posts/{post}"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := strings.Join(args, " ")

			parsed, _, err := a.parseAll(cmd.Context())
			if err != nil {
				return err
			}

			route := models.FindRoute(parsed, selector)
			if route == nil {
				return errors.NotFound("route", selector).
					WithSuggestion("Use a route name or \"METHOD uri\" as listed by `outbound parse`")
			}
			for _, warning := range route.Warnings {
				a.diagnostics.Warn("%s", warning)
			}
			return a.write(schema.ExampleFor(route))
		},
	}
}

func (a *App) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve parsed routes and example payloads over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			config := server.DefaultConfig()
			config.Addr = a.config.Serve.Addr

			srv := server.New(config, a.loadRoutes, a.newParserFactory(), logrus.NewEntry(a.logger))
			if err := srv.Refresh(ctx); err != nil {
				return err
			}

			a.diagnostics.Success("Serving on http://%s", config.Addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	_ = a.viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *App) newParserFactory() server.ParserFactory {
	return func() *parser.Parser { return a.newParser() }
}

// summarize prints pass statistics on the diagnostics stream
func (a *App) summarize(parsed []*models.ParsedRoute, p *parser.Parser) {
	var inline, formRequest, none, warnings int
	for _, route := range parsed {
		switch {
		case route.Source == nil:
			none++
		case route.Source.Kind == models.SourceInline:
			inline++
		default:
			formRequest++
		}
		warnings += len(route.Warnings)
	}

	stats := map[string]interface{}{
		"Routes":              len(parsed),
		"Inline validation":   inline,
		"Form Requests":       formRequest,
		"No validation found": none,
		"Warnings":            warnings,
	}
	for name, s := range p.Stats() {
		stats[fmt.Sprintf("Cache %s", strings.ReplaceAll(name, "_", " "))] = fmt.Sprintf("%d entries, %d hits", s.Size, s.Hits)
	}
	a.diagnostics.Summary("Parse complete", stats)
}
