package synth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/schema"
)

const catalogYAML = `
version: "1"
schemas:
  - name: Product
    fields:
      - name: title
        type: string
        annotations: [overridable]
      - name: variants
        type: "[]Variant"
        annotations: ["relationship(source: nested)"]
  - name: Variant
    fields:
      - name: color
        type: string
        annotations: [overridable]
  - name: Broken
    fields:
      - name: sku
        type: string
        annotations: [identity_excluded, overridable]
  - name: Dangling
    fields:
      - name: parts
        type: "[]Part"
        annotations: [relationship]
`

func TestProcessor_Process(t *testing.T) {
	f, err := schema.Parse([]byte(catalogYAML))
	require.NoError(t, err)

	p := NewProcessor(schema.DefaultDefaults(), zap.NewNop())
	p.Concurrency = 2

	reg, diags, err := p.Process(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, []string{"Product", "Variant"}, reg.Names())

	require.Len(t, diags.Errors, 2)
	assert.Equal(t, "Broken", diags.Errors[0].Schema)
	assert.Equal(t, diagnostic.CodeConflictingAttributes, diags.Errors[0].Code)
	assert.Equal(t, "Dangling", diags.Errors[1].Schema)
	assert.Equal(t, diagnostic.CodeMissingRelatedShape, diags.Errors[1].Code)
}

func TestProcessor_ValidationRejectsSchema(t *testing.T) {
	f := &schema.File{
		Version: "1",
		Schemas: []schema.Declaration{
			{Name: "Product", Fields: []schema.FieldDecl{field("title", "string"), field("title", "string")}},
			{Name: "Variant"},
		},
	}

	reg, diags, err := NewProcessor(schema.DefaultDefaults(), nil).Process(context.Background(), f)
	require.NoError(t, err)

	assert.True(t, diags.HasCode(diagnostic.CodeDuplicateField))
	assert.Equal(t, []string{"Variant"}, reg.Names())
}

func TestProcessor_RejectsCollidingMembers(t *testing.T) {
	tests := []struct {
		name  string
		decl  schema.Declaration
		code  string
		field string
	}{
		{
			name:  "back reference on plain schema",
			decl:  schema.Declaration{Name: "A", Fields: []schema.FieldDecl{field("definition_id", "string", "overridable")}},
			code:  diagnostic.CodeReservedField,
			field: "definition_id",
		},
		{
			name:  "exported identity",
			decl:  schema.Declaration{Name: "B", Fields: []schema.FieldDecl{field("ID", "string")}},
			code:  diagnostic.CodeReservedField,
			field: "ID",
		},
		{
			name:  "exported source",
			decl:  schema.Declaration{Name: "C", Fields: []schema.FieldDecl{field("Source", "string")}},
			code:  diagnostic.CodeReservedField,
			field: "Source",
		},
		{
			name: "leaf and whole field",
			decl: schema.Declaration{Name: "D", Fields: []schema.FieldDecl{
				field("shipping", "Shipping", "overridable(Shipping.carrier, string)"),
				field("shipping_carrier", "string", "overridable"),
			}},
			code:  diagnostic.CodeDuplicateField,
			field: "shipping_carrier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &schema.File{Version: "1", Schemas: []schema.Declaration{tt.decl}}

			reg, diags, err := NewProcessor(schema.DefaultDefaults(), nil).Process(context.Background(), f)
			require.NoError(t, err)

			require.True(t, diags.HasErrors())
			assert.Equal(t, tt.code, diags.Errors[0].Code)
			assert.Equal(t, tt.decl.Name, diags.Errors[0].Schema)
			assert.Equal(t, tt.field, diags.Errors[0].Field)
			assert.Empty(t, reg.Names())
		})
	}
}

func TestProcessor_BadVersion(t *testing.T) {
	f := &schema.File{Version: "2", Schemas: []schema.Declaration{{Name: "Variant"}}}

	reg, diags, err := NewProcessor(schema.DefaultDefaults(), nil).Process(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, diags.IsValid())
	assert.Zero(t, reg.Len())
}

func TestProcessor_DefaultsApply(t *testing.T) {
	f := &schema.File{Version: "1", Schemas: []schema.Declaration{{
		Name:   "Product",
		Fields: []schema.FieldDecl{field("title", "string")},
	}}}

	defaults := schema.Defaults{Pattern: schema.PatternNonInstantiable, Policy: schema.PolicyAllOverridable}

	reg, diags, err := NewProcessor(defaults, nil).Process(context.Background(), f)
	require.NoError(t, err)
	require.True(t, diags.IsValid())

	fam, ok := reg.Lookup("Product")
	require.True(t, ok)
	assert.False(t, fam.HasInstance())
	assert.Equal(t, []string{"definition_id", "title"}, fam.Override.FieldNames())
}

func TestProcessor_Cancelled(t *testing.T) {
	f, err := schema.Parse([]byte(catalogYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = NewProcessor(schema.DefaultDefaults(), nil).Process(ctx, f)
	require.ErrorIs(t, err, context.Canceled)
}
