// Package classify implements the override classifier.
//
// For every stored field, in declaration order, it decides:
//   - the override class: none, whole-property, nested-leaf or identity-excluded
//   - the storage tier: both, definition-only, instance-only or excluded
//   - whether the field is a relationship to another schema, and its container
//
// Precedence for the override class:
//  1. identity_excluded wins (an override marker alongside it is an error)
//  2. overridable with no arguments -> whole-property
//  3. overridable(Root.leaf, LeafType) -> nested-leaf
//  4. otherwise the schema's default policy applies
//
// Relationship fields never take part in property overrides; nested
// relationships are overridden through the related schema's own Override shape.
package classify
