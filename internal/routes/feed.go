package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/chrisbeaver/outbound/internal/errors"
	"github.com/chrisbeaver/outbound/internal/models"
)

// Format is a route feed encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the feed format from a file extension
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// listRecord is one element of `php artisan route:list --json`
type listRecord struct {
	Domain     *string         `json:"domain"`
	Method     string          `json:"method"`
	URI        string          `json:"uri"`
	Name       *string         `json:"name"`
	Action     string          `json:"action"`
	Middleware json.RawMessage `json:"middleware"`
}

// Decode reads a route feed in the given format
func Decode(r io.Reader, format Format) ([]models.RouteDefinition, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(r)
	default:
		return DecodeJSON(r)
	}
}

// Load reads a route feed file, choosing the format by extension
func Load(fs afero.Fs, path string) ([]models.RouteDefinition, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("open", path, err)
	}
	defer file.Close()

	return Decode(file, FormatFor(path))
}

// DecodeJSON reads the route:list JSON shape. Methods arrive as "GET|HEAD";
// middleware may be a list or a newline separated string.
func DecodeJSON(r io.Reader) ([]models.RouteDefinition, error) {
	var records []listRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode route list: %w", err)
	}

	defs := make([]models.RouteDefinition, 0, len(records))
	for _, rec := range records {
		def := models.RouteDefinition{
			Methods:    splitMethods(rec.Method),
			URI:        rec.URI,
			Action:     rec.Action,
			Middleware: decodeMiddleware(rec.Middleware),
		}
		if rec.Name != nil {
			def.Name = *rec.Name
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// DecodeYAML reads a list of route definitions in this tool's own field names
func DecodeYAML(r io.Reader) ([]models.RouteDefinition, error) {
	var defs []models.RouteDefinition
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode route yaml: %w", err)
	}
	for i := range defs {
		var methods []string
		for _, m := range defs[i].Methods {
			methods = append(methods, splitMethods(m)...)
		}
		defs[i].Methods = methods
	}
	return defs, nil
}

func splitMethods(raw string) []string {
	var methods []string
	for _, m := range strings.Split(raw, "|") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

func decodeMiddleware(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return strings.Fields(joined)
	}
	return nil
}
