package engine

import (
	"errors"
	"fmt"
	"maps"

	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/synth"
	"resolvable-generator/resolve"
)

// Record is one untyped definition, override, instance or resolved record.
type Record = map[string]any

var (
	// ErrUnknownSchema is returned for schemas missing from the registry.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrDuplicateOverride is returned when two overrides share a definition id.
	ErrDuplicateOverride = errors.New("duplicate override")
	// ErrOverrideMismatch is returned when an override targets another definition.
	ErrOverrideMismatch = errors.New("override does not belong to definition")
	// ErrNotInstantiable is returned when instances are given for a family without an Instance shape.
	ErrNotInstantiable = errors.New("schema has no instance shape")
	// ErrMissingID is returned for records without their identity member.
	ErrMissingID = errors.New("record has no identity")
	// ErrInvalidValue is returned when a value does not fit the member's shape.
	ErrInvalidValue = errors.New("invalid value")
)

// Source keys of a resolved record.
const (
	SourceKindKey = "kind"
	SourceIDKey   = "id"
)

// Engine resolves records of the families in Registry.
type Engine struct {
	Registry   *synth.Registry
	Duplicates resolve.DuplicatePolicy
}

// New creates an engine that rejects duplicate overrides.
func New(reg *synth.Registry) *Engine {
	return &Engine{Registry: reg}
}

func (e *Engine) family(name string) (*synth.Family, error) {
	f, ok := e.Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	return f, nil
}

// Resolve returns the definition-derived records followed by the
// instance-derived records, each group in input order.
func (e *Engine) Resolve(schemaName string, defs, ovrs, insts []Record) ([]Record, error) {
	f, err := e.family(schemaName)
	if err != nil {
		return nil, err
	}

	out, err := e.resolveDefinitions(f, defs, ovrs, false)
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolveInstances(f, insts, false)
	if err != nil {
		return nil, err
	}

	return append(out, resolved...), nil
}

// ResolveDefinition resolves one definition with an optional override.
func (e *Engine) ResolveDefinition(schemaName string, def, ovr Record) (Record, error) {
	f, err := e.family(schemaName)
	if err != nil {
		return nil, err
	}

	return e.resolveDefinition(f, def, ovr)
}

// ResolveInstance resolves one instance.
func (e *Engine) ResolveInstance(schemaName string, inst Record) (Record, error) {
	f, err := e.family(schemaName)
	if err != nil {
		return nil, err
	}

	return e.resolveInstance(f, inst)
}

// ResolveDataSet resolves the records of one schema held by ds.
func (e *Engine) ResolveDataSet(ds *DataSet, schemaName string) ([]Record, error) {
	return e.Resolve(schemaName, ds.Definitions[schemaName], ds.Overrides[schemaName], ds.Instances[schemaName])
}

func (e *Engine) resolveDefinition(f *synth.Family, def, ovr Record) (Record, error) {
	id, err := identity(def, classify.IdentityField)
	if err != nil {
		return nil, fmt.Errorf("%s definition: %w", f.Name, err)
	}

	if ovr != nil {
		target, err := identity(ovr, classify.DefinitionIDField)
		if err != nil {
			return nil, fmt.Errorf("%s override: %w", f.Name, err)
		}

		if target != id {
			return nil, fmt.Errorf("%w: %s override %s, definition %s", ErrOverrideMismatch, f.Name, target, id)
		}
	}

	out := newResolved(resolve.FromDefinition(id))
	if f.StorageAware {
		out[classify.DefinitionIDField] = id
	}

	for _, rule := range f.Merge {
		if !rule.InDefinition {
			continue
		}

		value, ok := def[rule.Field]

		switch rule.Action {
		case synth.MergeWhole:
			if patch, present := present(ovr, rule.OverrideField); present {
				value, ok = patch, true
			}

		case synth.MergeLeaf:
			value, err = patchLeaves(value, ovr, rule.Leaves)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", f.Name, rule.Field, err)
			}

		case synth.MergeRelationship:
			if !ok {
				continue
			}

			var related any
			if rule.Nested {
				related, _ = present(ovr, rule.Field)
			}

			value, err = e.resolveRelated(rule.Relationship, value, related, false)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", f.Name, rule.Field, err)
			}
		}

		if ok {
			out[rule.Field] = cloneValue(value)
		}
	}

	return out, nil
}

func (e *Engine) resolveInstance(f *synth.Family, inst Record) (Record, error) {
	if !f.HasInstance() {
		return nil, fmt.Errorf("%w: %s", ErrNotInstantiable, f.Name)
	}

	id, err := identity(inst, classify.IdentityField)
	if err != nil {
		return nil, fmt.Errorf("%s instance: %w", f.Name, err)
	}

	out := newResolved(resolve.FromInstance(id))
	if f.StorageAware {
		if backRef, ok := present(inst, classify.DefinitionIDField); ok {
			out[classify.DefinitionIDField] = backRef
		}
	}

	for _, rule := range f.Merge {
		if !rule.InInstance {
			continue
		}

		value, ok := inst[rule.Field]
		if !ok {
			continue
		}

		if rule.Action == synth.MergeRelationship {
			value, err = e.resolveRelated(rule.Relationship, value, nil, true)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", f.Name, rule.Field, err)
			}
		}

		out[rule.Field] = cloneValue(value)
	}

	return out, nil
}

func (e *Engine) resolveDefinitions(f *synth.Family, defs, ovrs []Record, set bool) ([]Record, error) {
	index := make(map[string]Record, len(ovrs))

	for _, o := range ovrs {
		id, err := identity(o, classify.DefinitionIDField)
		if err != nil {
			return nil, fmt.Errorf("%s override: %w", f.Name, err)
		}

		if _, dup := index[id]; dup && e.Duplicates == resolve.RejectDuplicates {
			return nil, fmt.Errorf("%w: %s definition %s", ErrDuplicateOverride, f.Name, id)
		}

		index[id] = o
	}

	if set {
		var err error
		if defs, err = uniqueSorted(defs); err != nil {
			return nil, fmt.Errorf("%s definition: %w", f.Name, err)
		}
	}

	out := make([]Record, 0, len(defs))

	for _, d := range defs {
		id, err := identity(d, classify.IdentityField)
		if err != nil {
			return nil, fmt.Errorf("%s definition: %w", f.Name, err)
		}

		r, err := e.resolveDefinition(f, d, index[id])
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

func (e *Engine) resolveInstances(f *synth.Family, insts []Record, set bool) ([]Record, error) {
	if set {
		var err error
		if insts, err = uniqueSorted(insts); err != nil {
			return nil, fmt.Errorf("%s instance: %w", f.Name, err)
		}
	}

	out := make([]Record, 0, len(insts))

	for _, i := range insts {
		r, err := e.resolveInstance(f, i)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

// patchLeaves copies a parent value and replaces every leaf that has a
// present override value. A missing or nil parent is returned unchanged.
func patchLeaves(parent any, ovr Record, leaves []synth.LeafRule) (any, error) {
	var patched map[string]any

	for _, leaf := range leaves {
		v, ok := present(ovr, leaf.OverrideField)
		if !ok || parent == nil {
			continue
		}

		if patched == nil {
			m, isMap := parent.(map[string]any)
			if !isMap {
				return nil, fmt.Errorf("%w: expected an object, got %T", ErrInvalidValue, parent)
			}

			patched = maps.Clone(m)
		}

		patched[leaf.Leaf] = v
	}

	if patched == nil {
		return parent, nil
	}

	return patched, nil
}

func newResolved(src resolve.Source) Record {
	return Record{
		classify.SourceField: map[string]any{
			SourceKindKey: src.Kind.String(),
			SourceIDKey:   src.ID,
		},
		classify.IdentityField: src.ID,
	}
}

// present returns a non-nil value stored under key.
func present(r Record, key string) (any, bool) {
	if r == nil {
		return nil, false
	}

	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}
