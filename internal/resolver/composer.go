package resolver

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chrisbeaver/outbound/internal/utils"
)

// namespaceMapping is one PSR-4 prefix -> directory entry
type namespaceMapping struct {
	Prefix string // with trailing "\"
	Dir    string // relative to the project root
}

// defaultMappings is Laravel's stock autoload section
var defaultMappings = []namespaceMapping{{Prefix: `App\`, Dir: "app"}}

type composerManifest struct {
	Autoload    composerAutoload `json:"autoload"`
	AutoloadDev composerAutoload `json:"autoload-dev"`
}

type composerAutoload struct {
	PSR4 map[string]json.RawMessage `json:"psr-4"`
}

// loadMappings reads the PSR-4 section of composer.json under root. A missing
// or unreadable manifest yields Laravel's default App\ -> app/ mapping.
func loadMappings(reader *utils.FileReader, root string) []namespaceMapping {
	content, err := reader.ReadFile(filepath.Join(root, "composer.json"))
	if err != nil {
		return defaultMappings
	}
	mappings, err := parseComposer([]byte(content))
	if err != nil || len(mappings) == 0 {
		return defaultMappings
	}
	return mappings
}

// parseComposer returns PSR-4 mappings, longest prefix first. Directory values
// may be a string or a list of strings.
func parseComposer(content []byte) ([]namespaceMapping, error) {
	var manifest composerManifest
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil, err
	}

	var mappings []namespaceMapping
	for _, section := range []composerAutoload{manifest.Autoload, manifest.AutoloadDev} {
		for prefix, raw := range section.PSR4 {
			var dirs []string
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				dirs = []string{single}
			} else if err := json.Unmarshal(raw, &dirs); err != nil {
				continue
			}
			for _, dir := range dirs {
				mappings = append(mappings, namespaceMapping{
					Prefix: strings.TrimSuffix(prefix, `\`) + `\`,
					Dir:    strings.Trim(dir, "/"),
				})
			}
		}
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		if len(mappings[i].Prefix) != len(mappings[j].Prefix) {
			return len(mappings[i].Prefix) > len(mappings[j].Prefix)
		}
		return mappings[i].Dir < mappings[j].Dir
	})
	return mappings, nil
}

// candidates returns the PSR-4 file paths a class could live at
func candidates(mappings []namespaceMapping, root, class string) []string {
	var paths []string
	for _, m := range mappings {
		if !strings.HasPrefix(class, m.Prefix) {
			continue
		}
		rel := strings.ReplaceAll(strings.TrimPrefix(class, m.Prefix), `\`, "/") + ".php"
		paths = append(paths, filepath.Join(root, m.Dir, rel))
	}
	return paths
}
