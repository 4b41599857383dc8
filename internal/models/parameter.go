package models

// ParamType is the semantic type inferred for a request field
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
	TypeFile    ParamType = "file"
	TypeDate    ParamType = "date"
	TypeEmail   ParamType = "email"
	TypeURL     ParamType = "url"
	TypeUUID    ParamType = "uuid"
)

// IsContainer reports whether nodes of this type may carry children
func (t ParamType) IsContainer() bool {
	return t == TypeArray || t == TypeObject
}

// WildcardName names the element child of an array declared as "field.*"
const WildcardName = "*"

// ParameterNode is one inferred request field.
// A node with children is always array or object typed; a path parameter never has children.
type ParameterNode struct {
	Name        string           `json:"name" yaml:"name"`
	Type        ParamType        `json:"type" yaml:"type"`
	Required    bool             `json:"required" yaml:"required"`
	Rules       []string         `json:"rules,omitempty" yaml:"rules,omitempty"`
	IsPathParam bool             `json:"isPathParam" yaml:"isPathParam"`
	EnumValues  []string         `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	Default     interface{}      `json:"default,omitempty" yaml:"default,omitempty"`
	Children    []*ParameterNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasChildren reports whether the node has nested fields
func (n *ParameterNode) HasChildren() bool {
	return len(n.Children) > 0
}

// Child returns the direct child with the given name
func (n *ParameterNode) Child(name string) *ParameterNode {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// HasRule reports whether the node carries a rule token with the given name
func (n *ParameterNode) HasRule(token string) bool {
	for _, rule := range n.Rules {
		if rule == token {
			return true
		}
	}
	return false
}
