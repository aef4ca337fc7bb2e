package schema

import (
	"resolvable-generator/internal/common"
)

// File is the root of a declaration file.
type File struct {
	Version string        `yaml:"version" validate:"omitempty,oneof=1"`
	Schemas []Declaration `yaml:"schemas" validate:"dive"`
}

// Declaration is one schema as written by its author.
type Declaration struct {
	Name    string      `yaml:"name" validate:"required,ident"`
	Options Options     `yaml:"options,omitempty"`
	Fields  []FieldDecl `yaml:"fields,omitempty" validate:"dive"`
	// Imports are the package paths referenced by qualified field types.
	Imports []string `yaml:"imports,omitempty"`
}

// Options are the schema-level options.
type Options struct {
	Pattern               Pattern `yaml:"pattern,omitempty" validate:"omitempty,oneof=full non_instantiable"`
	DefaultOverridePolicy Policy  `yaml:"default_override_policy,omitempty" validate:"omitempty,oneof=opt_in all_overridable"`
	StorageAware          bool    `yaml:"storage_aware,omitempty"`
}

// FieldDecl is one declared field.
type FieldDecl struct {
	Name        string            `yaml:"name" validate:"required,ident"`
	GoName      string            `yaml:"go_name,omitempty" validate:"omitempty,ident"`
	Type        string            `yaml:"type" validate:"required"`
	Computed    bool              `yaml:"computed,omitempty"`
	ReadOnly    bool              `yaml:"read_only,omitempty"`
	Annotations []string          `yaml:"annotations,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty"`
}

// Pattern selects which shapes a schema produces.
type Pattern string

const (
	// PatternFull produces Definition, Instance, Override and Resolved.
	PatternFull Pattern = "full"
	// PatternNonInstantiable omits the Instance shape.
	PatternNonInstantiable Pattern = "non_instantiable"
)

// HasInstance reports whether the pattern includes an Instance shape.
func (p Pattern) HasInstance() bool {
	return p != PatternNonInstantiable
}

// Policy is the default override policy for unmarked fields.
type Policy string

const (
	// PolicyOptIn leaves unmarked fields non-overridable.
	PolicyOptIn Policy = "opt_in"
	// PolicyAllOverridable makes unmarked fields whole-property overridable.
	PolicyAllOverridable Policy = "all_overridable"
)

// Defaults are applied to declarations that omit schema options.
type Defaults struct {
	Pattern Pattern
	Policy  Policy
}

// DefaultDefaults returns the built-in option defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Pattern: PatternFull,
		Policy:  PolicyOptIn,
	}
}

// Schema is the normalized output of the extractor.
type Schema struct {
	BaseName      string
	Pattern       Pattern
	DefaultPolicy Policy
	StorageAware  bool
	Fields        []Field
	Imports       []string
}

// Field pairs a descriptor with the markers attached to it.
type Field struct {
	Descriptor FieldDescriptor
	Markers    []Marker
}

// FieldDescriptor describes one stored field. It is immutable after extraction.
type FieldDescriptor struct {
	Name             string
	GoName           string
	DeclaredType     string
	StoredNoAccessor bool
	Mutable          bool
	// Attributes are the non-marker annotation tokens, echoed into derived shapes.
	Attributes []string
	// Tags are host tags (e.g. json) echoed into derived shapes.
	Tags map[string]string
}

// ExportedName returns the Go identifier for the field.
func (f FieldDescriptor) ExportedName() string {
	if f.GoName != "" {
		return f.GoName
	}

	return common.ExportedName(f.Name)
}

// MarkerKind identifies a schema marker annotation.
type MarkerKind int

const (
	MarkerOverridable MarkerKind = iota + 1
	MarkerIdentityExcluded
	MarkerDefinitionOnly
	MarkerInstanceOnly
	MarkerRelationship
	MarkerResolvableRelationship
)

// String returns the token name of the marker.
func (k MarkerKind) String() string {
	switch k {
	case MarkerOverridable:
		return "overridable"
	case MarkerIdentityExcluded:
		return "identity_excluded"
	case MarkerDefinitionOnly:
		return "definition_only"
	case MarkerInstanceOnly:
		return "instance_only"
	case MarkerRelationship:
		return "relationship"
	case MarkerResolvableRelationship:
		return "resolvable_relationship"
	default:
		return common.UnknownStr
	}
}

// Marker is a parsed marker annotation.
type Marker struct {
	Kind MarkerKind
	Args []Arg
	Raw  string
}

// HasArgs reports whether the marker was written with arguments.
func (m Marker) HasArgs() bool {
	return len(m.Args) > 0
}

// Positional returns the positional (unkeyed) arguments in order.
func (m Marker) Positional() []Arg {
	var out []Arg

	for _, a := range m.Args {
		if a.Key == "" {
			out = append(out, a)
		}
	}

	return out
}

// Keyword returns the value of a keyword argument.
func (m Marker) Keyword(key string) (string, bool) {
	for _, a := range m.Args {
		if a.Key == key {
			return a.Value, true
		}
	}

	return "", false
}

// Arg is one marker argument: "value", "key: value" or "[a, b]".
type Arg struct {
	Key   string
	Value string
	List  []string
}

// IsList reports whether the argument is a bracketed list.
func (a Arg) IsList() bool {
	return a.List != nil
}
