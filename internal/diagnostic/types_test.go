package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Buckets(t *testing.T) {
	var d Diagnostics

	d.AddError(CodeMissingLeaf, "path names no leaf", "Product", "shipping")
	d.AddWarning(CodeRedundantOverridable, "redundant", "Product", "title")
	d.AddInfo(CodeRelationshipCycle, "cycle", "Category", "")

	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())
	assert.Len(t, d.Errors, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.True(t, d.HasCode(CodeRedundantOverridable))
	assert.False(t, d.HasCode(CodeMissingPath))

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, SeverityError, all[0].Severity)
	assert.Equal(t, SeverityInfo, all[2].Severity)
}

func TestDiagnostics_ForSchemaAndMerge(t *testing.T) {
	var a, b Diagnostics

	a.AddError(CodeMissingPath, "no path", "Product", "shipping")
	b.AddWarning(CodeUnplacedField, "unplaced", "Order", "note")
	a.Merge(b)

	product := a.ForSchema("Product")
	assert.Len(t, product.Errors, 1)
	assert.Empty(t, product.Warnings)

	order := a.ForSchema("Order")
	assert.Len(t, order.Warnings, 1)
}

func TestDiagnostics_Err(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Err())

	d.AddError(CodeMissingLeafType, "leaf type required", "Product", "shipping")
	d.AddError(CodeDuplicateSchema, "duplicate schema", "Order", "")

	err := d.Err()
	require.Error(t, err)
	assert.Equal(t,
		"[Product] shipping: [missing_leaf_type] leaf type required; [Order]: [duplicate_schema] duplicate schema",
		err.Error())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestRender_NoColor(t *testing.T) {
	var d Diagnostics

	d.Add(Diagnostic{
		Severity:    SeverityError,
		Code:        CodeMissingRelatedShape,
		Message:     `related schema "Varient" has not been processed`,
		Schema:      "Product",
		Field:       "variants",
		Suggestions: []string{"Variant"},
	})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, d, true))

	out := buf.String()
	assert.Contains(t, out, "error   [Product] variants: [missing_related_shape]")
	assert.Contains(t, out, "did you mean: Variant?")
	assert.Equal(t, "1 error(s), 0 warning(s), 0 info(s)", Summary(d))
}
