// Package schema provides the declaration file format, annotation token
// normalization and the Schema Extractor.
//
// A declaration file lists schemas; every schema names an ordered list of
// typed fields annotated with override and storage intent:
//
//	version: "1"
//	schemas:
//	  - name: Product
//	    options:
//	      pattern: full                    # full | non_instantiable
//	      default_override_policy: opt_in  # opt_in | all_overridable
//	      storage_aware: false
//	    fields:
//	      - name: title
//	        type: string
//	        annotations: [overridable]
//	      - name: shipping
//	        type: Shipping
//	        annotations: ["overridable(Shipping.carrier, string)"]
//	      - name: variants
//	        type: "[]Variant"
//	        annotations: ["relationship(source: nested, delete: cascade)"]
//
// # Annotation tokens
//
// Marker tokens carry schema metadata only and never reach derived shapes:
//   - overridable, overridable(), overridable(Root.leaf, LeafType)
//   - identity_excluded
//   - definition_only, instance_only
//   - relationship(source: plain|nested, delete: rule, inverse: Root.leaf)
//   - resolvable_relationship(DefinitionType, [ComponentType, ...])
//
// Any other token is a host attribute and is echoed onto every derived field.
//
// # Extraction
//
// Extract turns one declaration into a Schema: computed fields are dropped,
// markers are split from attributes and schema options receive defaults.
package schema
