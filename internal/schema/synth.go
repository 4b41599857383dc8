package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/chrisbeaver/outbound/internal/models"
	"github.com/chrisbeaver/outbound/internal/rules"
)

// DefaultMaxDepth bounds recursion on malformed trees
const DefaultMaxDepth = 32

// PathParamExample is the value used for every path parameter
const PathParamExample = "1"

var exampleUUID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

// Placeholder upload names
const (
	ExampleFile  = "document.pdf"
	ExampleImage = "image.jpg"
)

// Synthesizer produces example values from parameter nodes.
// The zero value is not usable; call NewSynthesizer.
type Synthesizer struct {
	Now      func() time.Time
	MaxDepth int
}

// NewSynthesizer returns a synthesizer using the wall clock for dates
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{Now: time.Now, MaxDepth: DefaultMaxDepth}
}

var defaultSynthesizer = NewSynthesizer()

// Synthesize returns an example value for the node
func Synthesize(node *models.ParameterNode) interface{} {
	return defaultSynthesizer.Value(node)
}

// ExamplePayload returns a ready-to-send body for the non-path parameters
func ExamplePayload(params []*models.ParameterNode) map[string]interface{} {
	return defaultSynthesizer.Payload(params)
}

// Value returns an example value for the node. Precedence: enum, explicit
// default, children, canonical value for the type.
func (s *Synthesizer) Value(node *models.ParameterNode) interface{} {
	return s.value(node, 0)
}

// Payload builds an object from every non-path parameter
func (s *Synthesizer) Payload(params []*models.ParameterNode) map[string]interface{} {
	payload := make(map[string]interface{})
	for _, node := range params {
		if node == nil || node.IsPathParam || node.Name == models.WildcardName {
			continue
		}
		payload[node.Name] = s.value(node, 1)
	}
	return payload
}

func (s *Synthesizer) value(node *models.ParameterNode, depth int) interface{} {
	if node == nil || depth > s.MaxDepth {
		return nil
	}

	switch {
	case node.IsPathParam:
		return PathParamExample
	case len(node.EnumValues) > 0:
		return node.EnumValues[0]
	case node.Default != nil:
		return node.Default
	case node.HasChildren():
		return s.container(node, depth)
	}

	return s.canonical(node)
}

func (s *Synthesizer) container(node *models.ParameterNode, depth int) interface{} {
	if node.Type == models.TypeArray {
		if len(node.Children) == 1 && node.Children[0].Name == models.WildcardName {
			return []interface{}{s.value(node.Children[0], depth+1)}
		}
		return []interface{}{s.object(node.Children, depth)}
	}
	return s.object(node.Children, depth)
}

func (s *Synthesizer) object(children []*models.ParameterNode, depth int) map[string]interface{} {
	obj := make(map[string]interface{}, len(children))
	for _, child := range children {
		if child.Name == models.WildcardName {
			continue
		}
		obj[child.Name] = s.value(child, depth+1)
	}
	return obj
}

func (s *Synthesizer) canonical(node *models.ParameterNode) interface{} {
	switch node.Type {
	case models.TypeInteger:
		if min, ok := rules.Min(node.Rules); ok {
			return int(min)
		}
		return 1
	case models.TypeNumber:
		if min, ok := rules.Min(node.Rules); ok {
			return min
		}
		return 1.5
	case models.TypeBoolean:
		return true
	case models.TypeArray:
		return []interface{}{}
	case models.TypeObject:
		return map[string]interface{}{}
	case models.TypeFile:
		for _, token := range node.Rules {
			if rules.RuleName(token) == "image" {
				return ExampleImage
			}
		}
		return ExampleFile
	case models.TypeDate:
		return s.Now().Format("2006-01-02")
	case models.TypeEmail:
		return "user@example.com"
	case models.TypeURL:
		return "https://example.com"
	case models.TypeUUID:
		return exampleUUID.String()
	default:
		return "example"
	}
}
