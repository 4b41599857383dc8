package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/chrisbeaver/outbound/internal/models"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem renders human-facing CLI output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// NewDiagnosticSystem creates a new diagnostic system writing to stdout/stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: !color.NoColor,
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// WithOutput redirects both streams, disabling colors
func (d *DiagnosticSystem) WithOutput(w io.Writer) *DiagnosticSystem {
	d.output = w
	d.errorOut = w
	d.useColors = false
	d.showTime = false
	return d
}

// UseStderr sends all output, summaries included, to the error stream
func (d *DiagnosticSystem) UseStderr() *DiagnosticSystem {
	d.output = d.errorOut
	return d
}

var (
	levelColors = map[string]*color.Color{
		"ERROR":   color.New(color.FgRed),
		"WARN":    color.New(color.FgYellow),
		"INFO":    color.New(color.FgBlue),
		"SUCCESS": color.New(color.FgGreen),
		"VERBOSE": color.New(color.FgHiBlack),
		"DEBUG":   color.New(color.FgMagenta),
	}
	methodColor = color.New(color.FgCyan, color.Bold)
	typeColor   = color.New(color.FgHiBlack)
	pathColor   = color.New(color.FgMagenta)
)

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", format, args...)
	}
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s\n", title)
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics, keys sorted
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	fmt.Fprintf(d.output, "\n%s\n", title)

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
}

// Route prints one parsed route with its parameter tree
func (d *DiagnosticSystem) Route(route *models.ParsedRoute) {
	if d.level < DiagnosticInfo {
		return
	}

	fmt.Fprintf(d.output, "%s%s %s", d.getIndent(), d.paint(methodColor, fmt.Sprintf("%-6s", route.Method)), models.NormalizeURI(route.URI))
	if route.Source != nil {
		source := string(route.Source.Kind)
		if route.Source.Class != "" {
			source += " " + route.Source.Class
		}
		fmt.Fprintf(d.output, "  %s", d.paint(typeColor, "("+source+")"))
	}
	fmt.Fprintln(d.output)

	d.Indent()
	d.params(route.RequestParams)
	for _, warning := range route.Warnings {
		d.Warn("%s", warning)
	}
	d.Unindent()
}

func (d *DiagnosticSystem) params(nodes []*models.ParameterNode) {
	for _, node := range nodes {
		marker := "-"
		if node.Required {
			marker = "*"
		}
		label := node.Name
		if node.IsPathParam {
			label = d.paint(pathColor, "{"+node.Name+"}")
		}

		line := fmt.Sprintf("%s%s %s %s", d.getIndent(), marker, label, d.paint(typeColor, string(node.Type)))
		if len(node.EnumValues) > 0 {
			line += " [" + strings.Join(node.EnumValues, "|") + "]"
		}
		if node.HasRule("nullable") {
			line += " " + d.paint(typeColor, "nullable")
		}
		fmt.Fprintln(d.output, line)

		if node.HasChildren() {
			d.Indent()
			d.params(node.Children)
			d.Unindent()
		}
	}
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(writer io.Writer, level, format string, args ...interface{}) {
	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	output.WriteString(d.paint(levelColors[level], "["+level+"]"))
	output.WriteString(" ")
	output.WriteString(fmt.Sprintf(format, args...))
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) paint(c *color.Color, s string) string {
	if !d.useColors || c == nil {
		return s
	}
	return c.Sprint(s)
}

// getIndent returns the current indentation string
func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// LevelFromVerbosity maps -q / -v flags onto a diagnostic level
func LevelFromVerbosity(quiet bool, verbose int) DiagnosticLevel {
	if quiet {
		return DiagnosticError
	}
	level := DiagnosticInfo + DiagnosticLevel(verbose)
	if level > DiagnosticDebug {
		level = DiagnosticDebug
	}
	return level
}
