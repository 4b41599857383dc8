package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/chrisbeaver/outbound/internal/errors"
)

// Reporter renders a command failure with its context and suggestions
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// ReportError prints err; structured errors also get context and suggestions
func (r *Reporter) ReportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(r.out, "ERROR: ")
	fmt.Fprintf(r.out, "%s\n", err.Error())

	var structured errors.OutboundError
	if !stderrors.As(err, &structured) {
		return
	}

	fmt.Fprintf(r.out, "Type: %s\n", structured.ErrorCode())
	if r.verbose && structured.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n", structured.Unwrap().Error())
	}
	if ctx := structured.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}
	if hints := structured.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}
}

func (r *Reporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey turns snake_case keys into Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *Reporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
}
