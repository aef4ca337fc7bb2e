package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/schema"
)

func registryOf(t *testing.T, decls ...schema.Declaration) *Registry {
	t.Helper()

	reg := NewRegistry()
	for _, decl := range decls {
		require.NoError(t, reg.Register(synthesizeDecl(t, decl)))
	}

	return reg
}

func variantDecl() schema.Declaration {
	return schema.Declaration{
		Name:   "Variant",
		Fields: []schema.FieldDecl{field("color", "string", "overridable")},
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := registryOf(t, productDecl())

	err := reg.Register(synthesizeDecl(t, productDecl()))
	require.ErrorIs(t, err, ErrDuplicateFamily)

	f, ok := reg.Lookup("Product")
	require.True(t, ok)
	assert.Equal(t, "Product", f.Name)

	_, ok = reg.Lookup("Nope")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LinkOK(t *testing.T) {
	catalog := schema.Declaration{
		Name:   "Catalog",
		Fields: []schema.FieldDecl{field("variants", "[]Variant", "relationship(source: nested)")},
	}

	reg := registryOf(t, catalog, variantDecl())

	diags := reg.Link()
	assert.True(t, diags.IsValid(), diags.Err())
	assert.Equal(t, []string{"Catalog", "Variant"}, reg.Names())
}

func TestRegistry_LinkMissing(t *testing.T) {
	catalog := schema.Declaration{
		Name:   "Catalog",
		Fields: []schema.FieldDecl{field("variants", "[]Varaint", "relationship")},
	}
	shelf := schema.Declaration{
		Name:   "Shelf",
		Fields: []schema.FieldDecl{field("catalog", "Catalog", "relationship")},
	}

	reg := registryOf(t, catalog, shelf, variantDecl())

	diags := reg.Link()
	require.Len(t, diags.Errors, 2)

	assert.Equal(t, diagnostic.CodeMissingRelatedShape, diags.Errors[0].Code)
	assert.Equal(t, "Catalog", diags.Errors[0].Schema)
	assert.Equal(t, "variants", diags.Errors[0].Field)
	assert.Equal(t, []string{"Variant"}, diags.Errors[0].Suggestions)

	assert.Equal(t, "Shelf", diags.Errors[1].Schema, "dependents of a broken family are removed as well")
	assert.Equal(t, []string{"Variant"}, reg.Names())
}

func TestRegistry_LinkMissingShapes(t *testing.T) {
	frozen := schema.Declaration{
		Name:    "Frozen",
		Options: schema.Options{Pattern: schema.PatternNonInstantiable},
		Fields:  []schema.FieldDecl{field("code", "string")},
	}

	tests := []struct {
		name  string
		field schema.FieldDecl
	}{
		{"instance tier needs an Instance shape", field("frozen", "Frozen", "relationship")},
		{"nested needs an Override shape", field("frozen", "Frozen", "relationship(source: nested)", "definition_only")},
		{"unknown component", field("variants", "[]Variant", "resolvable_relationship(Variant, [Sticker])")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := schema.Declaration{Name: "Owner", Fields: []schema.FieldDecl{tt.field}}
			reg := registryOf(t, owner, frozen, variantDecl())

			diags := reg.Link()
			require.Len(t, diags.Errors, 1)
			assert.Equal(t, diagnostic.CodeMissingRelatedShape, diags.Errors[0].Code)

			_, ok := reg.Lookup("Owner")
			assert.False(t, ok)
		})
	}
}

func TestRegistry_Order(t *testing.T) {
	catalog := schema.Declaration{
		Name:   "Catalog",
		Fields: []schema.FieldDecl{field("variants", "[]Variant", "relationship(source: nested)")},
	}
	apple := schema.Declaration{Name: "Apple"}

	reg := registryOf(t, catalog, variantDecl(), apple)

	families, diags := reg.Order()
	assert.Empty(t, diags.Infos)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"Apple", "Variant", "Catalog"}, names)
}

func TestRegistry_OrderCycles(t *testing.T) {
	a := schema.Declaration{Name: "A", Fields: []schema.FieldDecl{field("b", "[]B", "relationship")}}
	b := schema.Declaration{Name: "B", Fields: []schema.FieldDecl{field("a", "*A", "relationship")}}
	tree := schema.Declaration{Name: "Tree", Fields: []schema.FieldDecl{field("children", "[]Tree", "relationship")}}

	reg := registryOf(t, a, b, tree)
	ld := reg.Link()
	require.True(t, ld.IsValid(), ld.Err())

	families, diags := reg.Order()
	require.Len(t, families, 3)
	assert.Equal(t, "Tree", families[0].Name)
	assert.Equal(t, "A", families[1].Name)
	assert.Equal(t, "B", families[2].Name)

	require.Len(t, diags.Infos, 3)
	assert.True(t, diags.HasCode(diagnostic.CodeRelationshipCycle))
	assert.True(t, diags.IsValid())
}
