package classify

import (
	"resolvable-generator/internal/common"
	"resolvable-generator/internal/schema"
)

// OverrideKind is the override class of a field.
type OverrideKind int

const (
	OverrideNone OverrideKind = iota
	OverrideWhole
	OverrideNestedLeaf
	OverrideIdentityExcluded
)

// String returns a human-readable override class.
func (k OverrideKind) String() string {
	switch k {
	case OverrideNone:
		return "none"
	case OverrideWhole:
		return "whole"
	case OverrideNestedLeaf:
		return "nested_leaf"
	case OverrideIdentityExcluded:
		return "identity_excluded"
	default:
		return common.UnknownStr
	}
}

// StorageKind is the storage tier a field is placed in.
type StorageKind int

const (
	StorageBoth StorageKind = iota
	StorageDefinitionOnly
	StorageInstanceOnly
	StorageExcluded
)

// String returns a human-readable storage tier.
func (k StorageKind) String() string {
	switch k {
	case StorageBoth:
		return "both"
	case StorageDefinitionOnly:
		return "definition_only"
	case StorageInstanceOnly:
		return "instance_only"
	case StorageExcluded:
		return "excluded"
	default:
		return common.UnknownStr
	}
}

// InDefinition reports whether the tier places the field on Definition.
func (k StorageKind) InDefinition() bool {
	return k == StorageBoth || k == StorageDefinitionOnly
}

// InInstance reports whether the tier places the field on Instance.
func (k StorageKind) InInstance() bool {
	return k == StorageBoth || k == StorageInstanceOnly
}

// RelationshipKind distinguishes the two relationship flavors.
type RelationshipKind int

const (
	// RelationshipPlain embeds a related sub-object resolved without overrides.
	RelationshipPlain RelationshipKind = iota
	// RelationshipNested embeds a related definition/override/instance triple.
	RelationshipNested
)

// String returns a human-readable relationship kind.
func (k RelationshipKind) String() string {
	switch k {
	case RelationshipPlain:
		return "plain"
	case RelationshipNested:
		return "nested"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the relationship kind by name.
func (k RelationshipKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Leaf is one nested-leaf override declaration.
type Leaf struct {
	// Parent is the declaring field name.
	Parent string
	// Root is the explicit root type named by the path.
	Root string
	// Name is the leaf member inside the parent value.
	Name string
	// Type is the explicit leaf type.
	Type string
}

// FieldName returns the flattened Override field name, e.g. "shipping_carrier".
func (l Leaf) FieldName() string {
	return common.JoinLeafName(l.Parent, l.Name)
}

// Relationship describes a field whose type is governed by another schema.
type Relationship struct {
	Kind       RelationshipKind
	Container  schema.Container
	Related    string
	DeleteRule string
	Inverse    *schema.Path
	// Components lists instance component schemas of a resolvable relationship.
	Components []string
}

// Field is the classification of one stored field.
type Field struct {
	Descriptor   schema.FieldDescriptor
	Override     OverrideKind
	Leaves       []Leaf
	Storage      StorageKind
	Relationship *Relationship
}

// IsOverridable reports whether the field contributes to the Override shape.
func (f Field) IsOverridable() bool {
	if f.Relationship != nil {
		return f.Relationship.Kind == RelationshipNested && f.Storage.InDefinition()
	}

	return f.Override == OverrideWhole || f.Override == OverrideNestedLeaf
}

// Classification is the classifier output for one schema.
type Classification struct {
	Schema *schema.Schema
	Fields []Field
}

// Field returns the classified field with the given name.
func (c *Classification) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Descriptor.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// HasOverridable reports whether any field contributes to the Override shape.
func (c *Classification) HasOverridable() bool {
	for _, f := range c.Fields {
		if f.IsOverridable() {
			return true
		}
	}

	return false
}

// Relationships returns the relationship fields in declaration order.
func (c *Classification) Relationships() []Field {
	var out []Field

	for _, f := range c.Fields {
		if f.Relationship != nil {
			out = append(out, f)
		}
	}

	return out
}
