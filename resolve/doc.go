// Package resolve is the runtime used by generated resolvable families.
//
// A Family binds the four generated shapes of one schema (Definition,
// Override, Instance, Resolved) to their identity accessors and merge
// functions, and provides the resolve operations over them:
//
//	resolved, err := productFamily().Resolve(definitions, overrides, instances)
//
// Resolution is pure: inputs are never mutated, nested-leaf patches work on
// copies, and definition-derived results precede instance-derived results,
// each group in input order.
package resolve
