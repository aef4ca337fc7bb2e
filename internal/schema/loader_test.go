package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productYAML = `
version: "1"
schemas:
  - name: Product
    options:
      pattern: full
      default_override_policy: opt_in
    fields:
      - name: title
        type: string
        annotations: [overridable]
      - name: sku
        type: string
        read_only: true
        annotations: [unique]
        tags:
          json: sku
      - name: price
        type: float64
        annotations: [overridable]
      - name: shipping
        type: Shipping
        annotations: ["overridable(Shipping.carrier, string)"]
      - name: label
        type: string
        computed: true
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(productYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Schemas, 1)

	decl := f.Schemas[0]
	assert.Equal(t, "Product", decl.Name)
	assert.Equal(t, PatternFull, decl.Options.Pattern)
	assert.Equal(t, PolicyOptIn, decl.Options.DefaultOverridePolicy)
	require.Len(t, decl.Fields, 5)

	assert.Equal(t, []string{"overridable"}, decl.Fields[0].Annotations)
	assert.True(t, decl.Fields[1].ReadOnly)
	assert.Equal(t, map[string]string{"json": "sku"}, decl.Fields[1].Tags)
	assert.Equal(t, []string{"overridable(Shipping.carrier, string)"}, decl.Fields[3].Annotations)
	assert.True(t, decl.Fields[4].Computed)
}

func TestParseMinimal(t *testing.T) {
	f, err := Parse([]byte("schemas:\n  - name: Empty\n"))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	require.Len(t, f.Schemas, 1)
	assert.Empty(t, f.Schemas[0].Fields)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("schemas: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse declaration YAML")
}

func TestWriteAndLoadFile(t *testing.T) {
	f, err := Parse([]byte(productYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schemas.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
