package schema

import (
	"reflect"

	"wiremap/naming"
)

// File represents the root of a YAML schema declaration document.
type File struct {
	// Version of the declaration format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Models lists the model declarations.
	Models []ModelDecl `yaml:"models"`
}

// ModelDecl declares one model: its wire fields and the name overrides
// the casing conversion cannot derive.
type ModelDecl struct {
	// Name identifies the model; nested fields reference it by this name.
	Name string `yaml:"name"`

	// Fields lists the declared attributes, in wire order.
	Fields []FieldDecl `yaml:"fields"`

	// Overrides maps derived wire names to the actual wire keys.
	// Example: { "size_gb": "SizeGB" }
	Overrides naming.Overrides `yaml:"overrides,omitempty"`
}

// FieldDecl declares a single attribute.
type FieldDecl struct {
	// Attribute is the camelCase attribute name.
	Attribute string `yaml:"attribute"`

	// Type is one of string, bool, int, float, raw, or a model name.
	// Empty means raw: the value passes through verbatim.
	Type string `yaml:"type,omitempty"`

	// Sequence marks the field as holding an ordered list of nested
	// models rather than a single one.
	Sequence bool `yaml:"sequence,omitempty"`
}

// FieldDescriptor is the resolved metadata for one declared field,
// produced by binding a FieldDecl to a struct prototype.
type FieldDescriptor struct {
	Attribute string
	Kind      KindEnum
	Model     string // nested model name, set only for KindModel
	Sequence  bool

	// Index and Type locate the bound field on the prototype struct.
	Index int
	Type  reflect.Type
}

// Schema binds a model declaration to its Go struct type.
type Schema struct {
	Name      string
	Type      reflect.Type // struct type, never a pointer
	Fields    []FieldDescriptor
	Overrides naming.Overrides

	byAttribute map[string]int
	flipped     naming.Overrides
}

// Describe returns the descriptor for the given attribute name.
func (s *Schema) Describe(attribute string) (FieldDescriptor, bool) {
	i, ok := s.byAttribute[attribute]
	if !ok {
		return FieldDescriptor{}, false
	}

	return s.Fields[i], true
}

// WireKey resolves the wire key an attribute is written under:
// the override entry when one exists, else the derived snake_case name.
func (s *Schema) WireKey(attribute string) string {
	derived := naming.ToWireName(attribute)
	if actual, ok := s.Overrides[derived]; ok {
		return actual
	}

	return derived
}

// AttributeFor resolves an incoming wire key to an attribute name,
// consulting the flipped override table before the casing conversion.
func (s *Schema) AttributeFor(wireKey string) string {
	if derived, ok := s.flipped[wireKey]; ok {
		return naming.ToAttributeName(derived)
	}

	return naming.ToAttributeName(wireKey)
}
