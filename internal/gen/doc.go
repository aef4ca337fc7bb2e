// Package gen emits Go source for synthesized families.
//
// Generation uses text/template + go/format. One file is written per schema,
// named <snake_base>_resolvable.go, containing:
//   - the Definition, Instance and Override structs with their initializers
//   - the Source alias and the Resolved struct with its ID method
//   - the merge functions wired into a resolve.Family
//   - the exported resolver operations
//
// No constructor is ever emitted for the raw schema type.
package gen
