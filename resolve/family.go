package resolve

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateOverride is returned when two overrides share a definition id
	// and the family rejects duplicates.
	ErrDuplicateOverride = errors.New("duplicate override")
	// ErrOverrideMismatch is returned when an override targets another definition.
	ErrOverrideMismatch = errors.New("override does not belong to definition")
	// ErrNotInstantiable is the panic value raised when instances are resolved
	// for a family without an Instance shape.
	ErrNotInstantiable = errors.New("family has no instance shape")
)

// DuplicatePolicy selects how overrides sharing a definition id are handled.
type DuplicatePolicy int

const (
	// RejectDuplicates fails resolution with ErrDuplicateOverride.
	RejectDuplicates DuplicatePolicy = iota
	// LastWins keeps the last override seen for each definition id.
	LastWins
)

// NoOverride is the override type of families without an Override shape.
type NoOverride struct {
	DefinitionID string
}

// NoInstance is the instance type of families without an Instance shape.
type NoInstance struct {
	ID string
}

// Family binds the generated shapes of one schema.
// D, O, I and R are the Definition, Override, Instance and Resolved types.
type Family[D, O, I, R any] struct {
	DefinitionID func(D) string
	OverrideID   func(O) string
	InstanceID   func(I) string

	// Definition merges a definition with its override, which may be nil.
	Definition func(D, *O) (R, error)
	// Instance copies an instance; nil for non-instantiable families.
	Instance func(I) R

	Duplicates DuplicatePolicy
}

// ResolveDefinition resolves one definition. o may be nil.
func (f Family[D, O, I, R]) ResolveDefinition(d D, o *O) (R, error) {
	if o != nil && f.OverrideID != nil {
		if got, want := f.OverrideID(*o), f.DefinitionID(d); got != want {
			var zero R
			return zero, fmt.Errorf("%w: override %s, definition %s", ErrOverrideMismatch, got, want)
		}
	}

	return f.Definition(d, o)
}

// ResolveDefinitions resolves every definition with the override keyed to its id.
func (f Family[D, O, I, R]) ResolveDefinitions(defs []D, ovrs []O) ([]R, error) {
	index, err := f.indexOverrides(ovrs)
	if err != nil {
		return nil, err
	}

	out := make([]R, 0, len(defs))
	for _, d := range defs {
		r, err := f.Definition(d, index[f.DefinitionID(d)])
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

// ResolveInstance resolves one instance. It panics with ErrNotInstantiable
// when the family has no Instance shape.
func (f Family[D, O, I, R]) ResolveInstance(i I) R {
	if f.Instance == nil {
		panic(ErrNotInstantiable)
	}

	return f.Instance(i)
}

// ResolveInstances resolves every instance in order.
func (f Family[D, O, I, R]) ResolveInstances(insts []I) []R {
	if len(insts) == 0 {
		return []R{}
	}

	out := make([]R, 0, len(insts))
	for _, i := range insts {
		out = append(out, f.ResolveInstance(i))
	}

	return out
}

// Resolve returns the definition-derived records followed by the
// instance-derived records, each group in input order.
func (f Family[D, O, I, R]) Resolve(defs []D, ovrs []O, insts []I) ([]R, error) {
	out, err := f.ResolveDefinitions(defs, ovrs)
	if err != nil {
		return nil, err
	}

	return append(out, f.ResolveInstances(insts)...), nil
}

// ResolveOptional resolves an optional definition.
func (f Family[D, O, I, R]) ResolveOptional(d *D, o *O) (*R, error) {
	if d == nil {
		return nil, nil
	}

	r, err := f.ResolveDefinition(*d, o)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// ResolveOptionalInstance resolves an optional instance.
func (f Family[D, O, I, R]) ResolveOptionalInstance(i *I) *R {
	if i == nil {
		return nil
	}

	r := f.ResolveInstance(*i)

	return &r
}

// ResolveOptionalDefinitions resolves an optional definition list.
func (f Family[D, O, I, R]) ResolveOptionalDefinitions(defs *[]D, ovrs []O) (*[]R, error) {
	if defs == nil {
		return nil, nil
	}

	out, err := f.ResolveDefinitions(*defs, ovrs)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveOptionalInstances resolves an optional instance list.
func (f Family[D, O, I, R]) ResolveOptionalInstances(insts *[]I) *[]R {
	if insts == nil {
		return nil
	}

	out := f.ResolveInstances(*insts)

	return &out
}

// ResolveSet resolves an unordered collection of definitions: the first
// definition per id is kept and results are ordered by id.
func (f Family[D, O, I, R]) ResolveSet(defs []D, ovrs []O) ([]R, error) {
	return f.ResolveDefinitions(uniqueSorted(defs, f.DefinitionID), ovrs)
}

// ResolveInstanceSet is ResolveSet for instances.
func (f Family[D, O, I, R]) ResolveInstanceSet(insts []I) []R {
	return f.ResolveInstances(uniqueSorted(insts, f.InstanceID))
}

// ResolveOptionalSet resolves an optional set of definitions.
func (f Family[D, O, I, R]) ResolveOptionalSet(defs *[]D, ovrs []O) (*[]R, error) {
	if defs == nil {
		return nil, nil
	}

	out, err := f.ResolveSet(*defs, ovrs)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ResolveOptionalInstanceSet resolves an optional set of instances.
func (f Family[D, O, I, R]) ResolveOptionalInstanceSet(insts *[]I) *[]R {
	if insts == nil {
		return nil
	}

	out := f.ResolveInstanceSet(*insts)

	return &out
}

func (f Family[D, O, I, R]) indexOverrides(ovrs []O) (map[string]*O, error) {
	index := make(map[string]*O, len(ovrs))

	for i := range ovrs {
		id := f.OverrideID(ovrs[i])
		if _, dup := index[id]; dup && f.Duplicates == RejectDuplicates {
			return nil, fmt.Errorf("%w for definition %s", ErrDuplicateOverride, id)
		}

		index[id] = &ovrs[i]
	}

	return index, nil
}

func uniqueSorted[T any](items []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))

	for _, it := range items {
		key := id(it)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, it)
	}

	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})

	return out
}
