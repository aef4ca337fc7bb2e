package engine

import (
	"cmp"
	"fmt"
	"slices"

	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/synth"
)

// resolveRelated resolves a relationship member through the related family.
// related holds the nested override value, if any.
func (e *Engine) resolveRelated(ref *synth.RelationshipRef, value, related any, instance bool) (any, error) {
	f, err := e.family(ref.Schema)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	if !ref.Container.IsCollection() {
		rec, err := asRecord(value)
		if err != nil {
			return nil, err
		}

		if instance {
			return e.resolveInstance(f, rec)
		}

		var ovr Record
		if related != nil {
			if ovr, err = asRecord(related); err != nil {
				return nil, err
			}
		}

		return e.resolveDefinition(f, rec, ovr)
	}

	recs, err := asRecords(value)
	if err != nil {
		return nil, err
	}

	var out []Record

	if instance {
		out, err = e.resolveInstances(f, recs, ref.Container.IsSet())
	} else {
		var ovrs []Record
		if related != nil {
			if ovrs, err = asRecords(related); err != nil {
				return nil, err
			}
		}

		out, err = e.resolveDefinitions(f, recs, ovrs, ref.Container.IsSet())
	}

	if err != nil {
		return nil, err
	}

	list := make([]any, len(out))
	for i, r := range out {
		list[i] = r
	}

	return list, nil
}

func asRecord(v any) (Record, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %T", ErrInvalidValue, v)
	}

	return m, nil
}

func asRecords(v any) ([]Record, error) {
	switch list := v.(type) {
	case []Record:
		return list, nil
	case []any:
		out := make([]Record, 0, len(list))

		for _, item := range list {
			rec, err := asRecord(item)
			if err != nil {
				return nil, err
			}

			out = append(out, rec)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, v)
	}
}

// identity returns the identity stored under key as a string.
func identity(r Record, key string) (string, error) {
	v, ok := present(r, key)
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrMissingID, key)
	}

	if s, ok := v.(string); ok {
		return s, nil
	}

	return fmt.Sprint(v), nil
}

// uniqueSorted keeps the first record per id and orders the result by id.
func uniqueSorted(recs []Record) ([]Record, error) {
	type keyed struct {
		id  string
		rec Record
	}

	seen := make(map[string]struct{}, len(recs))
	items := make([]keyed, 0, len(recs))

	for _, r := range recs {
		id, err := identity(r, classify.IdentityField)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		items = append(items, keyed{id: id, rec: r})
	}

	slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.id, b.id) })

	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}

	return out, nil
}

// cloneValue deep-copies maps and slices so resolved records never alias inputs.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = cloneValue(item)
		}

		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}
