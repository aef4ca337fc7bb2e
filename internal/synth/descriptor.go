package synth

import (
	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/common"
	"resolvable-generator/internal/schema"
)

// ShapeKind identifies one synthesized shape.
type ShapeKind int

const (
	ShapeDefinition ShapeKind = iota
	ShapeInstance
	ShapeOverride
	ShapeSource
	ShapeResolved
	ShapeResolver
)

// String returns the type-name suffix of the shape.
func (k ShapeKind) String() string {
	switch k {
	case ShapeDefinition:
		return "Definition"
	case ShapeInstance:
		return "Instance"
	case ShapeOverride:
		return "Override"
	case ShapeSource:
		return "Source"
	case ShapeResolved:
		return "Resolved"
	case ShapeResolver:
		return "Resolver"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the shape by name.
func (k ShapeKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// TypeName returns the name of a shape derived from base, e.g. "ProductOverride".
func TypeName(base string, kind ShapeKind) string {
	return base + kind.String()
}

// Source variants.
const (
	VariantDefinition = "definition"
	VariantInstance   = "instance"
)

// TypeDescriptor describes one synthesized shape. It is read-only once built.
type TypeDescriptor struct {
	Kind     ShapeKind `yaml:"kind"`
	TypeName string    `yaml:"type_name"`
	// IdentityField is the identity member; on Override it is the owning
	// definition's identity.
	IdentityField string `yaml:"identity_field,omitempty"`
	// GeneratedIdentity reports whether the identity gets a fresh default.
	GeneratedIdentity bool        `yaml:"generated_identity,omitempty"`
	Fields            []FieldSpec `yaml:"fields,omitempty"`
	// InitParams are the field names taken by the derived initializer.
	InitParams []string    `yaml:"init_params,omitempty"`
	Variants   []string    `yaml:"variants,omitempty"`
	Operations []Operation `yaml:"operations,omitempty"`
}

// Field returns the field spec with the given name.
func (d *TypeDescriptor) Field(name string) (FieldSpec, bool) {
	if d == nil {
		return FieldSpec{}, false
	}

	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return FieldSpec{}, false
}

// FieldNames returns the field names in order.
func (d *TypeDescriptor) FieldNames() []string {
	if d == nil {
		return nil
	}

	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}

	return names
}

// HasVariant reports whether a Source descriptor carries the variant.
func (d *TypeDescriptor) HasVariant(v string) bool {
	if d == nil {
		return false
	}

	for _, x := range d.Variants {
		if x == v {
			return true
		}
	}

	return false
}

// FieldSpec is one member of a synthesized shape.
type FieldSpec struct {
	Name   string `yaml:"name"`
	GoName string `yaml:"go_name"`
	// Type is the Go type of the value, without the optional marker.
	Type string `yaml:"type"`
	// Optional fields may be absent; they render as pointers.
	Optional bool              `yaml:"optional,omitempty"`
	Mutable  bool              `yaml:"mutable"`
	Tags     map[string]string `yaml:"tags,omitempty"`
	// Attributes are the host attributes echoed from the declaration.
	Attributes []string `yaml:"attributes,omitempty"`
	// Origin is the schema field the member is derived from.
	Origin string `yaml:"origin,omitempty"`
	// Leaf is set on nested-leaf override members.
	Leaf         string           `yaml:"leaf,omitempty"`
	Relationship *RelationshipRef `yaml:"relationship,omitempty"`
}

// GoType returns the rendered Go type, with a pointer for optional members.
func (f FieldSpec) GoType() string {
	if f.Optional {
		return "*" + f.Type
	}

	return f.Type
}

// RelationshipRef points a member at a shape of a related family.
type RelationshipRef struct {
	Schema     string                    `yaml:"schema"`
	Kind       classify.RelationshipKind `yaml:"kind"`
	Container  schema.Container          `yaml:"container"`
	Shape      ShapeKind                 `yaml:"shape"`
	DeleteRule string                    `yaml:"delete_rule,omitempty"`
	Inverse    string                    `yaml:"inverse,omitempty"`
	Components []string                  `yaml:"components,omitempty"`
}

// Operation is one resolver entry point.
type Operation struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params"`
	Result string  `yaml:"result"`
}

// Param is one operation parameter.
type Param struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional,omitempty"`
	Many     bool   `yaml:"many,omitempty"`
}

// Resolver operation names.
const (
	OpResolveDefinition  = "resolve_definition"
	OpResolveDefinitions = "resolve_definitions"
	OpResolveInstance    = "resolve_instance"
	OpResolveInstances   = "resolve_instances"
	OpResolve            = "resolve"
)

// MergeAction is how one resolved member is computed.
type MergeAction int

const (
	// MergeCopy copies the value from the originating record.
	MergeCopy MergeAction = iota
	// MergeWhole prefers the override value when present.
	MergeWhole
	// MergeLeaf copies the parent value and patches present leaves.
	MergeLeaf
	// MergeRelationship resolves the value through the related family.
	MergeRelationship
)

// String returns a human-readable merge action.
func (a MergeAction) String() string {
	switch a {
	case MergeCopy:
		return "copy"
	case MergeWhole:
		return "whole"
	case MergeLeaf:
		return "leaf"
	case MergeRelationship:
		return "relationship"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the action by name.
func (a MergeAction) MarshalYAML() (any, error) {
	return a.String(), nil
}

// MergeRule is the merge plan entry for one Resolved member.
type MergeRule struct {
	Field  string      `yaml:"field"`
	GoName string      `yaml:"go_name"`
	Action MergeAction `yaml:"action"`
	// OverrideField names the Override member for whole-property merges.
	OverrideField string     `yaml:"override_field,omitempty"`
	Leaves        []LeafRule `yaml:"leaves,omitempty"`
	// Nested is set when definition-derived values are resolved with overrides.
	Nested       bool             `yaml:"nested,omitempty"`
	Relationship *RelationshipRef `yaml:"relationship,omitempty"`
	InDefinition bool             `yaml:"in_definition"`
	InInstance   bool             `yaml:"in_instance"`
}

// LeafRule patches one member inside a parent value.
type LeafRule struct {
	Leaf           string `yaml:"leaf"`
	LeafGoName     string `yaml:"leaf_go_name"`
	OverrideField  string `yaml:"override_field"`
	OverrideGoName string `yaml:"override_go_name"`
	Type           string `yaml:"type"`
}

// Family is the synthesized output for one schema.
type Family struct {
	Name         string         `yaml:"name"`
	Pattern      schema.Pattern `yaml:"pattern"`
	StorageAware bool           `yaml:"storage_aware,omitempty"`
	Imports      []string       `yaml:"imports,omitempty"`

	Definition *TypeDescriptor `yaml:"definition"`
	Instance   *TypeDescriptor `yaml:"instance,omitempty"`
	Override   *TypeDescriptor `yaml:"override,omitempty"`
	Source     *TypeDescriptor `yaml:"source"`
	Resolved   *TypeDescriptor `yaml:"resolved"`
	Resolver   *TypeDescriptor `yaml:"resolver"`

	Merge []MergeRule `yaml:"merge"`
}

// HasInstance reports whether the family has an Instance shape.
func (f *Family) HasInstance() bool {
	return f.Instance != nil
}

// HasOverride reports whether the family has an Override shape.
func (f *Family) HasOverride() bool {
	return f.Override != nil
}

// Shape returns the descriptor of the given kind, or nil when the family omits it.
func (f *Family) Shape(kind ShapeKind) *TypeDescriptor {
	switch kind {
	case ShapeDefinition:
		return f.Definition
	case ShapeInstance:
		return f.Instance
	case ShapeOverride:
		return f.Override
	case ShapeSource:
		return f.Source
	case ShapeResolved:
		return f.Resolved
	case ShapeResolver:
		return f.Resolver
	default:
		return nil
	}
}

// Relationships returns the merge rules of relationship members.
func (f *Family) Relationships() []MergeRule {
	var out []MergeRule

	for _, r := range f.Merge {
		if r.Action == MergeRelationship {
			out = append(out, r)
		}
	}

	return out
}
