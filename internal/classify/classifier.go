package classify

import (
	"errors"
	"fmt"
	"strings"

	"resolvable-generator/internal/common"
	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/schema"
)

// Reserved field names used by the synthesized shapes.
const (
	IdentityField     = "id"
	DefinitionIDField = "definition_id"
	SourceField       = "source"
)

// Classify classifies every field of a schema.
// Structural problems are returned as error diagnostics attached to the
// offending field; callers must not synthesize a schema that has errors.
func Classify(s *schema.Schema) (*Classification, diagnostic.Diagnostics) {
	c := &classifier{schema: s}
	out := &Classification{Schema: s}

	for _, f := range s.Fields {
		out.Fields = append(out.Fields, c.classifyField(f))
	}

	c.checkMembers(out.Fields)

	return out, c.diags
}

type classifier struct {
	schema *schema.Schema
	diags  diagnostic.Diagnostics
}

// markerSet groups a field's markers by kind.
type markerSet struct {
	overrides     []schema.Marker
	identity      bool
	definition    bool
	instance      bool
	relationships []schema.Marker
}

func groupMarkers(markers []schema.Marker) markerSet {
	var ms markerSet

	for _, m := range markers {
		switch m.Kind {
		case schema.MarkerOverridable:
			ms.overrides = append(ms.overrides, m)
		case schema.MarkerIdentityExcluded:
			ms.identity = true
		case schema.MarkerDefinitionOnly:
			ms.definition = true
		case schema.MarkerInstanceOnly:
			ms.instance = true
		case schema.MarkerRelationship, schema.MarkerResolvableRelationship:
			ms.relationships = append(ms.relationships, m)
		}
	}

	return ms
}

func (c *classifier) classifyField(f schema.Field) Field {
	d := f.Descriptor
	out := Field{Descriptor: d}
	ms := groupMarkers(f.Markers)

	if len(ms.relationships) > 0 {
		out.Relationship = c.classifyRelationship(d, ms)
	} else {
		out.Override, out.Leaves = c.classifyOverride(d, ms)
	}

	out.Storage = c.classifyStorage(d, ms, out.Relationship != nil)

	if !out.Storage.InDefinition() && (out.Override == OverrideWhole || out.Override == OverrideNestedLeaf) {
		if len(ms.overrides) > 0 {
			c.diags.AddError(diagnostic.CodeOverrideNotOnDefinition,
				fmt.Sprintf("field is %s and cannot be overridden", out.Storage), c.schema.BaseName, d.Name)
		}

		out.Override = OverrideNone
		out.Leaves = nil
	}

	return out
}

// checkMembers rejects fields whose Go members collide with a synthesized
// member or with each other. Tier shapes carry one member per field; the
// Override shape carries one member per whole field and per flattened leaf.
func (c *classifier) checkMembers(fields []Field) {
	tier := reservedMembers()
	override := reservedMembers()

	for _, f := range fields {
		d := f.Descriptor
		c.claimMember(tier, d.ExportedName(), d.Name)

		if !f.IsOverridable() {
			continue
		}

		if f.Relationship == nil && f.Override == OverrideNestedLeaf {
			for _, leaf := range f.Leaves {
				c.claimMember(override, common.ExportedName(leaf.FieldName()), d.Name)
			}

			continue
		}

		c.claimMember(override, d.ExportedName(), d.Name)
	}
}

// reservedMembers maps the synthesized member names to an empty owner.
func reservedMembers() map[string]string {
	return map[string]string{
		common.ExportedName(IdentityField):     "",
		common.ExportedName(DefinitionIDField): "",
		common.ExportedName(SourceField):       "",
	}
}

func (c *classifier) claimMember(owners map[string]string, member, field string) {
	owner, taken := owners[member]

	switch {
	case !taken:
		owners[member] = field
	case owner == "":
		c.diags.AddError(diagnostic.CodeReservedField,
			fmt.Sprintf("member %s is reserved for synthesized shapes", member), c.schema.BaseName, field)
	case owner != field:
		c.diags.AddError(diagnostic.CodeDuplicateField,
			fmt.Sprintf("member %s collides with field %q", member, owner), c.schema.BaseName, field)
	}
}

// classifyOverride applies the override precedence rules.
func (c *classifier) classifyOverride(d schema.FieldDescriptor, ms markerSet) (OverrideKind, []Leaf) {
	base := c.schema.BaseName

	if ms.identity {
		if len(ms.overrides) > 0 {
			c.diags.AddError(diagnostic.CodeConflictingAttributes,
				"field carries both identity_excluded and overridable", base, d.Name)
		} else if c.schema.DefaultPolicy == schema.PolicyOptIn {
			c.diags.AddWarning(diagnostic.CodeRedundantIdentity,
				"identity_excluded is redundant under the opt_in policy", base, d.Name)
		}

		return OverrideIdentityExcluded, nil
	}

	if len(ms.overrides) == 0 {
		if c.schema.DefaultPolicy == schema.PolicyAllOverridable {
			return OverrideWhole, nil
		}

		return OverrideNone, nil
	}

	var whole, nested []schema.Marker

	for _, m := range ms.overrides {
		if m.HasArgs() {
			nested = append(nested, m)
		} else {
			whole = append(whole, m)
		}
	}

	if len(whole) > 0 && len(nested) > 0 {
		c.diags.AddError(diagnostic.CodeConflictingAttributes,
			"field is marked both whole-property and nested-leaf overridable", base, d.Name)

		return OverrideNone, nil
	}

	if len(whole) > 0 {
		if c.schema.DefaultPolicy == schema.PolicyAllOverridable {
			c.diags.AddWarning(diagnostic.CodeRedundantOverridable,
				"overridable is redundant under the all_overridable policy", base, d.Name)
		}

		return OverrideWhole, nil
	}

	var leaves []Leaf

	seen := map[string]struct{}{}

	for _, m := range nested {
		leaf, ok := c.parseLeaf(d, m)
		if !ok {
			continue
		}

		if _, dup := seen[leaf.Name]; dup {
			c.diags.AddError(diagnostic.CodeDuplicateLeaf,
				fmt.Sprintf("leaf %q is declared more than once", leaf.Name), base, d.Name)

			continue
		}

		seen[leaf.Name] = struct{}{}
		leaves = append(leaves, leaf)
	}

	if len(leaves) == 0 {
		return OverrideNone, nil
	}

	return OverrideNestedLeaf, leaves
}

// parseLeaf interprets overridable(path, LeafType).
// Keyword forms path: and type: are accepted as well.
func (c *classifier) parseLeaf(d schema.FieldDescriptor, m schema.Marker) (Leaf, bool) {
	base := c.schema.BaseName
	pos := m.Positional()

	pathExpr, _ := m.Keyword("path")
	if pathExpr == "" && len(pos) > 0 {
		pathExpr = pos[0].Value
	}

	leafType, ok := m.Keyword("type")
	if !ok && len(pos) > 1 {
		leafType = pos[1].Value
	}

	if strings.TrimSpace(pathExpr) == "" {
		c.diags.AddError(diagnostic.CodeMissingPath,
			"nested override requires a path expression", base, d.Name)

		return Leaf{}, false
	}

	path, err := schema.ParsePath(pathExpr)
	if err != nil {
		c.diags.AddError(pathErrorCode(err), err.Error(), base, d.Name)
		return Leaf{}, false
	}

	if len(path.Members) != 1 {
		c.diags.AddError(diagnostic.CodeInvalidPath,
			fmt.Sprintf("path %q must name exactly one leaf member", path), base, d.Name)

		return Leaf{}, false
	}

	if strings.TrimSpace(leafType) == "" {
		c.diags.AddError(diagnostic.CodeMissingLeafType,
			fmt.Sprintf("nested override %q requires an explicit leaf type", path), base, d.Name)

		return Leaf{}, false
	}

	if declared := elemTypeName(d.DeclaredType); declared != path.Root {
		c.diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityWarning,
			Code:        diagnostic.CodePathRootMismatch,
			Message:     fmt.Sprintf("path root %q does not match field type %q", path.Root, d.DeclaredType),
			Schema:      base,
			Field:       d.Name,
			Suggestions: []string{declared + "." + path.Leaf()},
		})
	}

	return Leaf{
		Parent: d.Name,
		Root:   path.Root,
		Name:   path.Leaf(),
		Type:   strings.TrimSpace(leafType),
	}, true
}

// classifyRelationship interprets relationship(...) and resolvable_relationship(...).
func (c *classifier) classifyRelationship(d schema.FieldDescriptor, ms markerSet) *Relationship {
	base := c.schema.BaseName

	if len(ms.overrides) > 0 {
		c.diags.AddError(diagnostic.CodeConflictingAttributes,
			"relationship fields cannot carry overridable", base, d.Name)
	}

	if len(ms.relationships) > 1 {
		c.diags.AddError(diagnostic.CodeConflictingAttributes,
			"field carries more than one relationship marker", base, d.Name)
	}

	m := ms.relationships[0]
	te := schema.ParseTypeExpr(d.DeclaredType)
	rel := &Relationship{
		Container: te.Container,
		Related:   unqualified(te.Elem),
	}

	if m.Kind == schema.MarkerResolvableRelationship {
		rel.Kind = RelationshipNested

		pos := m.Positional()
		if len(pos) == 0 || pos[0].IsList() || pos[0].Value == "" {
			c.diags.AddError(diagnostic.CodeInvalidAnnotation,
				"resolvable_relationship requires a definition type", base, d.Name)
		} else {
			rel.Related = unqualified(pos[0].Value)
		}

		if len(pos) > 1 {
			rel.Components = append([]string{}, pos[1].List...)
		}

		return rel
	}

	switch src, _ := m.Keyword("source"); src {
	case "", "plain":
		rel.Kind = RelationshipPlain
	case "nested":
		rel.Kind = RelationshipNested
	default:
		c.diags.AddError(diagnostic.CodeInvalidAnnotation,
			fmt.Sprintf("unknown relationship source %q (expected plain or nested)", src), base, d.Name)
	}

	rel.DeleteRule, _ = m.Keyword("delete")

	if inv, ok := m.Keyword("inverse"); ok {
		path, err := schema.ParsePath(inv)
		if err != nil {
			c.diags.AddError(pathErrorCode(err), "inverse "+err.Error(), base, d.Name)
		} else {
			rel.Inverse = &path
		}
	}

	return rel
}

// classifyStorage places a field on the storage tiers.
func (c *classifier) classifyStorage(d schema.FieldDescriptor, ms markerSet, isRelationship bool) StorageKind {
	switch {
	case ms.definition && ms.instance:
		c.diags.AddError(diagnostic.CodeConflictingStorageMarkers,
			"field carries both definition_only and instance_only", c.schema.BaseName, d.Name)

		return StorageExcluded
	case ms.definition:
		return StorageDefinitionOnly
	case ms.instance:
		return StorageInstanceOnly
	case c.schema.StorageAware && !isRelationship:
		c.diags.AddWarning(diagnostic.CodeUnplacedField,
			"field has no storage marker and is excluded from both tiers", c.schema.BaseName, d.Name)

		return StorageExcluded
	default:
		return StorageBoth
	}
}

func pathErrorCode(err error) string {
	switch {
	case errors.Is(err, schema.ErrEmptyPath):
		return diagnostic.CodeMissingPath
	case errors.Is(err, schema.ErrExplicitRootRequired):
		return diagnostic.CodeExplicitRootRequired
	case errors.Is(err, schema.ErrMissingLeaf):
		return diagnostic.CodeMissingLeaf
	default:
		return diagnostic.CodeInvalidPath
	}
}

// elemTypeName strips containers and package qualifiers from a type expression.
func elemTypeName(declared string) string {
	return unqualified(schema.ParseTypeExpr(declared).Elem)
}

func unqualified(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}

	return name
}
