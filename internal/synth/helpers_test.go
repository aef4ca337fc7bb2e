package synth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/schema"
)

func synthesizeDecl(t *testing.T, decl schema.Declaration) *Family {
	t.Helper()

	s, diags := schema.Extract(decl, schema.DefaultDefaults())
	require.True(t, diags.IsValid(), diags.Err())

	c, diags := classify.Classify(s)
	require.True(t, diags.IsValid(), diags.Err())

	return Synthesize(c)
}

func field(name, typ string, annotations ...string) schema.FieldDecl {
	return schema.FieldDecl{Name: name, Type: typ, Annotations: annotations}
}

func productDecl() schema.Declaration {
	return schema.Declaration{
		Name: "Product",
		Fields: []schema.FieldDecl{
			{Name: "title", Type: "string", Annotations: []string{"overridable"}, Tags: map[string]string{"json": "title"}},
			field("sku", "string"),
			field("price", "float64", "overridable"),
			field("shipping", "Shipping", "overridable(Shipping.carrier, string)"),
			{Name: "label", Type: "string", Computed: true},
		},
	}
}
