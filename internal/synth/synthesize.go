package synth

import (
	"maps"
	"slices"

	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/common"
	"resolvable-generator/internal/schema"
)

// IdentityType is the type of every identity member.
const IdentityType = "string"

// Synthesize derives the shape family of a classified schema.
// The classification must be free of error diagnostics.
func Synthesize(c *classify.Classification) *Family {
	s := c.Schema
	b := &builder{c: c, base: s.BaseName, hasInstance: s.Pattern.HasInstance()}

	f := &Family{
		Name:         s.BaseName,
		Pattern:      s.Pattern,
		StorageAware: s.StorageAware,
		Imports:      slices.Clone(s.Imports),
	}

	f.Definition = b.definition()

	if b.hasInstance {
		f.Instance = b.instance()
	}

	if c.HasOverridable() {
		f.Override = b.override()
	}

	f.Source = b.source()
	f.Resolved = b.resolved()
	f.Resolver = b.resolver(f)
	f.Merge = b.merge()

	return f
}

type builder struct {
	c           *classify.Classification
	base        string
	hasInstance bool
}

func (b *builder) identity(name string, optional bool) FieldSpec {
	return FieldSpec{
		Name:     name,
		GoName:   common.ExportedName(name),
		Type:     IdentityType,
		Optional: optional,
		Tags:     map[string]string{"json": name},
	}
}

// tierField renders a classified field on the Definition or Instance tier.
func (b *builder) tierField(f classify.Field, shape ShapeKind) FieldSpec {
	d := f.Descriptor
	spec := FieldSpec{
		Name:       d.Name,
		GoName:     d.ExportedName(),
		Type:       d.DeclaredType,
		Mutable:    d.Mutable,
		Tags:       maps.Clone(d.Tags),
		Attributes: append([]string(nil), d.Attributes...),
	}

	if f.Relationship != nil {
		spec.Relationship = relationshipRef(f.Relationship, shape)
		spec.Type = ContainerType(f.Relationship.Container, TypeName(f.Relationship.Related, shape))
	}

	return spec
}

func (b *builder) definition() *TypeDescriptor {
	d := &TypeDescriptor{
		Kind:              ShapeDefinition,
		TypeName:          TypeName(b.base, ShapeDefinition),
		IdentityField:     classify.IdentityField,
		GeneratedIdentity: true,
		Fields:            []FieldSpec{b.identity(classify.IdentityField, false)},
	}

	for _, f := range b.c.Fields {
		if !f.Storage.InDefinition() {
			continue
		}

		d.Fields = append(d.Fields, b.tierField(f, ShapeDefinition))
		d.InitParams = append(d.InitParams, f.Descriptor.Name)
	}

	return d
}

func (b *builder) instance() *TypeDescriptor {
	d := &TypeDescriptor{
		Kind:              ShapeInstance,
		TypeName:          TypeName(b.base, ShapeInstance),
		IdentityField:     classify.IdentityField,
		GeneratedIdentity: true,
		Fields:            []FieldSpec{b.identity(classify.IdentityField, false)},
	}

	for _, f := range b.c.Fields {
		if !f.Storage.InInstance() {
			continue
		}

		d.Fields = append(d.Fields, b.tierField(f, ShapeInstance))
		d.InitParams = append(d.InitParams, f.Descriptor.Name)
	}

	if b.c.Schema.StorageAware {
		backRef := b.identity(classify.DefinitionIDField, true)
		backRef.Mutable = true
		d.Fields = append(d.Fields, backRef)
		d.InitParams = append(d.InitParams, classify.DefinitionIDField)
	}

	return d
}

func (b *builder) override() *TypeDescriptor {
	d := &TypeDescriptor{
		Kind:          ShapeOverride,
		TypeName:      TypeName(b.base, ShapeOverride),
		IdentityField: classify.DefinitionIDField,
		Fields:        []FieldSpec{b.identity(classify.DefinitionIDField, false)},
		InitParams:    []string{classify.DefinitionIDField},
	}

	for _, f := range b.c.Fields {
		if !f.IsOverridable() {
			continue
		}

		desc := f.Descriptor

		switch {
		case f.Relationship != nil:
			rel := f.Relationship
			spec := FieldSpec{
				Name:         desc.Name,
				GoName:       desc.ExportedName(),
				Type:         TypeName(rel.Related, ShapeOverride),
				Mutable:      true,
				Origin:       desc.Name,
				Relationship: relationshipRef(rel, ShapeOverride),
				Tags:         omitEmptyTags(desc.Tags, desc.Name),
			}

			if rel.Container.IsCollection() {
				spec.Type = "[]" + spec.Type
			} else {
				spec.Optional = true
			}

			d.Fields = append(d.Fields, spec)

		case f.Override == classify.OverrideWhole:
			d.Fields = append(d.Fields, FieldSpec{
				Name:       desc.Name,
				GoName:     desc.ExportedName(),
				Type:       desc.DeclaredType,
				Optional:   true,
				Mutable:    true,
				Origin:     desc.Name,
				Tags:       omitEmptyTags(desc.Tags, desc.Name),
				Attributes: append([]string(nil), desc.Attributes...),
			})

		case f.Override == classify.OverrideNestedLeaf:
			for _, leaf := range f.Leaves {
				name := leaf.FieldName()
				d.Fields = append(d.Fields, FieldSpec{
					Name:     name,
					GoName:   common.ExportedName(name),
					Type:     leaf.Type,
					Optional: true,
					Mutable:  true,
					Origin:   desc.Name,
					Leaf:     leaf.Name,
					Tags:     omitEmptyTags(desc.Tags, name),
				})
			}
		}
	}

	return d
}

func (b *builder) source() *TypeDescriptor {
	d := &TypeDescriptor{
		Kind:     ShapeSource,
		TypeName: TypeName(b.base, ShapeSource),
		Variants: []string{VariantDefinition},
	}

	if b.hasInstance {
		d.Variants = append(d.Variants, VariantInstance)
	}

	return d
}

func (b *builder) resolved() *TypeDescriptor {
	d := &TypeDescriptor{
		Kind:          ShapeResolved,
		TypeName:      TypeName(b.base, ShapeResolved),
		IdentityField: classify.IdentityField,
		Fields: []FieldSpec{{
			Name:    classify.SourceField,
			GoName:  common.ExportedName(classify.SourceField),
			Type:    TypeName(b.base, ShapeSource),
			Mutable: true,
			Tags:    map[string]string{"json": classify.SourceField},
		}},
	}

	if b.c.Schema.StorageAware {
		backRef := b.identity(classify.DefinitionIDField, true)
		backRef.Mutable = true
		d.Fields = append(d.Fields, backRef)
	}

	for _, f := range b.c.Fields {
		if !b.inUnion(f) {
			continue
		}

		spec := b.tierField(f, ShapeResolved)
		spec.Mutable = true
		d.Fields = append(d.Fields, spec)
	}

	return d
}

func (b *builder) inUnion(f classify.Field) bool {
	return f.Storage.InDefinition() || (b.hasInstance && f.Storage.InInstance())
}

func (b *builder) resolver(f *Family) *TypeDescriptor {
	def := f.Definition.TypeName
	res := f.Resolved.TypeName

	resolveDef := Operation{
		Name:   OpResolveDefinition,
		Params: []Param{{Name: "definition", Type: def}},
		Result: res,
	}
	resolveDefs := Operation{
		Name:   OpResolveDefinitions,
		Params: []Param{{Name: "definitions", Type: def, Many: true}},
		Result: "[]" + res,
	}
	resolveAll := Operation{
		Name:   OpResolve,
		Params: []Param{{Name: "definitions", Type: def, Many: true}},
		Result: "[]" + res,
	}

	if f.Override != nil {
		ovr := f.Override.TypeName
		resolveDef.Params = append(resolveDef.Params, Param{Name: "override", Type: ovr, Optional: true})
		resolveDefs.Params = append(resolveDefs.Params, Param{Name: "overrides", Type: ovr, Many: true})
		resolveAll.Params = append(resolveAll.Params, Param{Name: "overrides", Type: ovr, Many: true})
	}

	d := &TypeDescriptor{
		Kind:       ShapeResolver,
		TypeName:   TypeName(b.base, ShapeResolver),
		Operations: []Operation{resolveDef, resolveDefs},
	}

	if f.Instance != nil {
		inst := f.Instance.TypeName
		d.Operations = append(d.Operations,
			Operation{
				Name:   OpResolveInstance,
				Params: []Param{{Name: "instance", Type: inst}},
				Result: res,
			},
			Operation{
				Name:   OpResolveInstances,
				Params: []Param{{Name: "instances", Type: inst, Many: true}},
				Result: "[]" + res,
			},
		)
		resolveAll.Params = append(resolveAll.Params, Param{Name: "instances", Type: inst, Many: true})
	}

	d.Operations = append(d.Operations, resolveAll)

	return d
}

func (b *builder) merge() []MergeRule {
	var rules []MergeRule

	for _, f := range b.c.Fields {
		if !b.inUnion(f) {
			continue
		}

		d := f.Descriptor
		rule := MergeRule{
			Field:        d.Name,
			GoName:       d.ExportedName(),
			InDefinition: f.Storage.InDefinition(),
			InInstance:   b.hasInstance && f.Storage.InInstance(),
		}

		switch {
		case f.Relationship != nil:
			rule.Action = MergeRelationship
			rule.Relationship = relationshipRef(f.Relationship, ShapeResolved)
			rule.Nested = f.IsOverridable()
		case f.Override == classify.OverrideWhole:
			rule.Action = MergeWhole
			rule.OverrideField = d.Name
		case f.Override == classify.OverrideNestedLeaf:
			rule.Action = MergeLeaf

			for _, leaf := range f.Leaves {
				name := leaf.FieldName()
				rule.Leaves = append(rule.Leaves, LeafRule{
					Leaf:           leaf.Name,
					LeafGoName:     common.ExportedName(leaf.Name),
					OverrideField:  name,
					OverrideGoName: common.ExportedName(name),
					Type:           leaf.Type,
				})
			}
		default:
			rule.Action = MergeCopy
		}

		rules = append(rules, rule)
	}

	return rules
}

func relationshipRef(rel *classify.Relationship, shape ShapeKind) *RelationshipRef {
	ref := &RelationshipRef{
		Schema:     rel.Related,
		Kind:       rel.Kind,
		Container:  rel.Container,
		Shape:      shape,
		DeleteRule: rel.DeleteRule,
		Components: append([]string(nil), rel.Components...),
	}

	if rel.Inverse != nil {
		ref.Inverse = rel.Inverse.String()
	}

	return ref
}

// ContainerType renders elem inside a relationship container.
// Sets render as slices; set semantics are applied during resolution.
func ContainerType(c schema.Container, elem string) string {
	switch c {
	case schema.ContainerOptional:
		return "*" + elem
	case schema.ContainerArray, schema.ContainerSet:
		return "[]" + elem
	case schema.ContainerArrayOptional, schema.ContainerSetOptional:
		return "*[]" + elem
	default:
		return elem
	}
}

// omitEmptyTags derives the tags of an optional member: the json key is
// renamed to name and marked omitempty. Non-json tags are kept.
func omitEmptyTags(tags map[string]string, name string) map[string]string {
	if len(tags) == 0 {
		return nil
	}

	out := maps.Clone(tags)
	if _, ok := out["json"]; ok {
		out["json"] = name + ",omitempty"
	}

	return out
}
