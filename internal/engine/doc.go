// Package engine resolves untyped records against synthesized families.
//
// Records are map[string]any values as decoded from YAML or JSON. Definitions
// and instances carry "id"; overrides carry "definition_id". A nil override
// value is treated as absent. The merge follows the family's merge plan, and
// relationship members are resolved recursively through the registry.
package engine
