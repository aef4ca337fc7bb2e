package schema

import (
	"errors"
	"maps"
	"slices"

	"resolvable-generator/internal/diagnostic"
)

// Extract normalizes one declaration into a Schema.
//
// Only stored fields are retained: computed fields are dropped silently from
// every derived shape. Marker tokens are split from host attributes so that
// markers never leak into generated field lists. An empty field list is valid.
// Token syntax errors are reported as invalid_annotation; the returned schema
// is still usable for further diagnostics.
func Extract(decl Declaration, defaults Defaults) (*Schema, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	s := &Schema{
		BaseName:      decl.Name,
		Pattern:       decl.Options.Pattern,
		DefaultPolicy: decl.Options.DefaultOverridePolicy,
		StorageAware:  decl.Options.StorageAware,
		Imports:       slices.Clone(decl.Imports),
	}

	if s.Pattern == "" {
		s.Pattern = defaults.Pattern
	}

	if s.DefaultPolicy == "" {
		s.DefaultPolicy = defaults.Policy
	}

	for _, fd := range decl.Fields {
		if fd.Computed {
			continue
		}

		field := Field{
			Descriptor: FieldDescriptor{
				Name:             fd.Name,
				GoName:           fd.GoName,
				DeclaredType:     fd.Type,
				StoredNoAccessor: true,
				Mutable:          !fd.ReadOnly,
				Tags:             maps.Clone(fd.Tags),
			},
		}

		for _, raw := range fd.Annotations {
			marker, isMarker, err := ParseToken(raw)
			if err != nil {
				diags.AddError(diagnostic.CodeInvalidAnnotation, errorMessage(err), decl.Name, fd.Name)
				continue
			}

			if isMarker {
				field.Markers = append(field.Markers, marker)
				continue
			}

			field.Descriptor.Attributes = append(field.Descriptor.Attributes, raw)
		}

		s.Fields = append(s.Fields, field)
	}

	return s, diags
}

func errorMessage(err error) string {
	if errors.Is(err, ErrInvalidToken) {
		return err.Error()
	}

	return "invalid annotation: " + err.Error()
}
