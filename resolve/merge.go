package resolve

import (
	"maps"
	"slices"
)

// Whole returns the patch value when present, else base.
func Whole[T any](base T, patch *T) T {
	if patch != nil {
		return *patch
	}

	return base
}

// Leaf returns a copy of parent with one member replaced by the patch.
// When patch is nil parent is returned unchanged.
func Leaf[P, L any](parent P, patch *L, set func(*P, L)) P {
	if patch != nil {
		set(&parent, *patch)
	}

	return parent
}

// LeafPtr is Leaf for pointer-typed parents. A patched parent is copied
// before set runs; a nil parent has nowhere to hold the leaf and stays nil.
func LeafPtr[P, L any](parent *P, patch *L, set func(*P, L)) *P {
	if patch == nil || parent == nil {
		return parent
	}

	cp := *parent
	set(&cp, *patch)

	return &cp
}

// Clone returns a copy of the value p points to, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}

	cp := *p

	return &cp
}

// CloneSlice returns a shallow copy of s. A nil slice stays nil.
func CloneSlice[S ~[]E, E any](s S) S {
	return slices.Clone(s)
}

// CloneMap returns a shallow copy of m. A nil map stays nil.
func CloneMap[M ~map[K]V, K comparable, V any](m M) M {
	return maps.Clone(m)
}
