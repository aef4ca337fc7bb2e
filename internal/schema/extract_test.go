package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvable-generator/internal/diagnostic"
)

func TestExtract_Product(t *testing.T) {
	f, err := Parse([]byte(productYAML))
	require.NoError(t, err)

	s, diags := Extract(f.Schemas[0], DefaultDefaults())
	require.True(t, diags.IsValid(), diags.Err())

	assert.Equal(t, "Product", s.BaseName)
	assert.Equal(t, PatternFull, s.Pattern)
	assert.Equal(t, PolicyOptIn, s.DefaultPolicy)

	// The computed "label" field is dropped.
	require.Len(t, s.Fields, 4)

	names := make([]string, 0, len(s.Fields))
	for _, fld := range s.Fields {
		names = append(names, fld.Descriptor.Name)
		assert.True(t, fld.Descriptor.StoredNoAccessor)
	}

	assert.Equal(t, []string{"title", "sku", "price", "shipping"}, names)

	title := s.Fields[0]
	require.Len(t, title.Markers, 1)
	assert.Equal(t, MarkerOverridable, title.Markers[0].Kind)
	assert.Empty(t, title.Descriptor.Attributes)
	assert.True(t, title.Descriptor.Mutable)

	sku := s.Fields[1]
	assert.Empty(t, sku.Markers)
	assert.Equal(t, []string{"unique"}, sku.Descriptor.Attributes)
	assert.False(t, sku.Descriptor.Mutable)
	assert.Equal(t, "SKU", FieldDescriptor{Name: "sku", GoName: "SKU"}.ExportedName())
	assert.Equal(t, "Sku", sku.Descriptor.ExportedName())

	shipping := s.Fields[3]
	require.Len(t, shipping.Markers, 1)
	assert.Equal(t, []Arg{{Value: "Shipping.carrier"}, {Value: "string"}}, shipping.Markers[0].Args)
}

func TestExtract_Defaults(t *testing.T) {
	decl := Declaration{Name: "Empty"}

	s, diags := Extract(decl, Defaults{Pattern: PatternNonInstantiable, Policy: PolicyAllOverridable})
	require.True(t, diags.IsValid())

	assert.Equal(t, PatternNonInstantiable, s.Pattern)
	assert.Equal(t, PolicyAllOverridable, s.DefaultPolicy)
	assert.Empty(t, s.Fields)
	assert.False(t, s.Pattern.HasInstance())
}

func TestExtract_InvalidToken(t *testing.T) {
	decl := Declaration{
		Name: "Product",
		Fields: []FieldDecl{
			{Name: "shipping", Type: "Shipping", Annotations: []string{"overridable(Shipping.carrier"}},
		},
	}

	s, diags := Extract(decl, DefaultDefaults())
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostic.CodeInvalidAnnotation, diags.Errors[0].Code)
	assert.Equal(t, "shipping", diags.Errors[0].Field)
	require.Len(t, s.Fields, 1)
	assert.Empty(t, s.Fields[0].Markers)
}
