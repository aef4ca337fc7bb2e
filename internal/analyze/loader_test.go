package analyze

import (
	"go/types"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvable-generator/internal/schema"
)

const catalogPkg = "resolvable-generator/examples/catalog"

func TestAnalyzer_LoadPackages(t *testing.T) {
	decls, err := NewAnalyzer(nil).LoadPackages(catalogPkg)
	require.NoError(t, err)

	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}

	assert.Equal(t, []string{"Category", "Product", "Variant"}, names)
}

func TestAnalyzer_ProductDeclaration(t *testing.T) {
	decls, err := NewAnalyzer(nil).LoadPackages(catalogPkg)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	product := decls[1]
	assert.Equal(t, schema.PatternFull, product.Options.Pattern)
	assert.Equal(t, schema.PolicyOptIn, product.Options.DefaultOverridePolicy)
	assert.Equal(t, []string{"time"}, product.Imports)

	byName := map[string]schema.FieldDecl{}
	for _, f := range product.Fields {
		byName[f.Name] = f
	}

	sku := byName["sku"]
	assert.Equal(t, "SKU", sku.GoName)
	assert.True(t, sku.ReadOnly)
	assert.Equal(t, []string{"unique"}, sku.Annotations)
	assert.Equal(t, map[string]string{"json": "sku"}, sku.Tags)

	assert.Equal(t, "*Shipping", byName["shipping"].Type)
	assert.Equal(t, []string{"overridable(Shipping.carrier, string)"}, byName["shipping"].Annotations)
	assert.Equal(t, "time.Time", byName["created_at"].Type)
	assert.Equal(t, "[]Variant", byName["variants"].Type)

	display := byName["display"]
	assert.True(t, display.Computed)
	assert.Empty(t, display.Tags)

	category := decls[0]
	assert.Equal(t, schema.PatternNonInstantiable, category.Options.Pattern)
	assert.True(t, category.Options.StorageAware)
}

// The checked-in declaration file is the analyzer output for the package.
func TestAnalyzer_MatchesDeclarationFile(t *testing.T) {
	decls, err := NewAnalyzer(nil).LoadPackages(catalogPkg)
	require.NoError(t, err)

	file, err := schema.LoadFile("../../examples/catalog/schemas.yaml")
	require.NoError(t, err)

	assert.Equal(t, file.Schemas, decls)
}

func TestAnalyzer_PackageErrors(t *testing.T) {
	_, err := NewAnalyzer(nil).LoadPackages("resolvable-generator/does/not/exist")
	require.Error(t, err)
}

func TestParseMarker(t *testing.T) {
	var opts schema.Options
	require.NoError(t, parseMarker("pattern=non_instantiable, policy=all_overridable, storage", &opts))
	assert.Equal(t, schema.Options{
		Pattern:               schema.PatternNonInstantiable,
		DefaultOverridePolicy: schema.PolicyAllOverridable,
		StorageAware:          true,
	}, opts)

	require.NoError(t, parseMarker("", &opts))

	err := parseMarker("sealed", &opts)
	require.ErrorIs(t, err, ErrInvalidMarker)
}

func TestDeclaration_Synthetic(t *testing.T) {
	pkg := types.NewPackage("example.com/shop", "shop")
	other := types.NewPackage("example.com/money", "money")
	amount := types.NewNamed(types.NewTypeName(0, other, "Amount", nil), types.Typ[types.Int64], nil)

	fields := []*types.Var{
		types.NewField(0, pkg, "_", types.NewStruct(nil, nil), false),
		types.NewField(0, pkg, "Price", amount, false),
		types.NewField(0, pkg, "note", types.Typ[types.String], false),
	}
	tags := []string{
		`resolvable:"policy=all_overridable"`,
		`json:"price" resolve:"identity_excluded"`,
		``,
	}

	decl, ok, err := declaration(pkg, "Order", types.NewStruct(fields, tags))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"example.com/money"}, decl.Imports)
	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "money.Amount", decl.Fields[0].Type)
	assert.Equal(t, []string{"identity_excluded"}, decl.Fields[0].Annotations)
	assert.True(t, decl.Fields[1].Computed)

	_, ok, err = declaration(pkg, "Plain", types.NewStruct(fields[1:], tags[1:]))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONName(t *testing.T) {
	tests := []struct {
		tag  reflect.StructTag
		want string
		ok   bool
	}{
		{`json:"price_cents,omitempty"`, "price_cents", true},
		{`json:"-"`, "", false},
		{`json:",omitempty"`, "", false},
		{`yaml:"x"`, "", false},
	}

	for _, tt := range tests {
		got, ok := jsonName(tt.tag)
		assert.Equal(t, tt.want, got, string(tt.tag))
		assert.Equal(t, tt.ok, ok, string(tt.tag))
	}
}
