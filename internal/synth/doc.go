// Package synth derives the family of shapes for a classified schema.
//
// A Family holds one TypeDescriptor per shape:
//   - Definition: identity + every field not restricted to the instance tier
//   - Instance: identity + every field not restricted to the definition tier
//     (absent for non-instantiable schemas)
//   - Override: definition identity + one optional field per whole-property
//     field and per nested leaf (absent when nothing is overridable)
//   - Source: provenance variants
//   - Resolved: identity derived from Source + the union of both tiers
//   - Resolver: the resolve operations over the siblings above
//
// Alongside the descriptors, a Family carries the merge plan consumed by the
// resolution engines. The Registry links relationship fields to the families
// of their related schemas, and the Processor runs the whole pipeline over a
// declaration file.
package synth
