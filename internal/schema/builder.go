// Package schema builds ParameterNode trees from flat rule entries and
// synthesizes example values from them.
package schema

import (
	"strings"

	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/rules"
)

// Build turns ordered "key => rules" entries into a node forest. Root order
// follows the entries. Dotted keys nest: "parent.child" makes parent an object,
// "parent.*.child" makes parent an array whose elements share the child schema.
func Build(entries []models.RuleEntry) []*models.ParameterNode {
	root := &models.ParameterNode{Children: []*models.ParameterNode{}}
	for _, entry := range entries {
		segments := splitKey(entry.Key)
		if len(segments) == 0 {
			continue
		}
		insert(root, segments, entry.Rules)
	}
	return root.Children
}

func insert(parent *models.ParameterNode, segments []string, tokens []string) {
	node := childOf(parent, segments[0])
	if len(segments) == 1 {
		apply(node, tokens)
		return
	}

	if segments[1] != models.WildcardName {
		if node.Type != models.TypeArray || !node.HasChildren() {
			node.Type = models.TypeObject
		}
		insert(node, segments[1:], tokens)
		return
	}

	node.Type = models.TypeArray
	rest := segments[2:]
	switch {
	case len(rest) == 0:
		apply(childOf(node, models.WildcardName), tokens)
	case rest[0] == models.WildcardName:
		// list of lists: the "*" child is itself the element array
		insert(node, segments[1:], tokens)
	default:
		insert(node, rest, tokens)
	}
}

// apply sets the rule-derived fields of a node. A node that already carries
// children keeps its structural type.
func apply(node *models.ParameterNode, tokens []string) {
	analysis := rules.Analyze(tokens)

	node.Rules = append([]string(nil), tokens...)
	node.Required = analysis.Required
	node.EnumValues = analysis.Enum
	if analysis.HasDefault {
		node.Default = analysis.Default
	}
	if !node.HasChildren() {
		node.Type = analysis.Type
	}
}

func childOf(parent *models.ParameterNode, name string) *models.ParameterNode {
	if node := parent.Child(name); node != nil {
		return node
	}
	node := &models.ParameterNode{Name: name, Type: models.TypeString}
	parent.Children = append(parent.Children, node)
	return node
}

func splitKey(key string) []string {
	var segments []string
	for _, segment := range strings.Split(key, ".") {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
