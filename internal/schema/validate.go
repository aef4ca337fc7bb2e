package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"resolvable-generator/internal/diagnostic"
)

var declValidate *validator.Validate

func init() {
	declValidate = validator.New()
	err := declValidate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return isIdent(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate performs structural validation of a declaration file.
// It checks required values and enums, and rejects duplicate schema and
// field names. Annotation semantics are checked later by the classifier.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeInvalidDeclaration, "declaration file is nil", "", "")
		return res
	}

	if err := declValidate.Var(f.Version, "omitempty,oneof=1"); err != nil {
		res.AddError(diagnostic.CodeInvalidDeclaration,
			fmt.Sprintf("unsupported version %q", f.Version), "", "")
	}

	seenSchemas := map[string]struct{}{}

	for i := range f.Schemas {
		decl := &f.Schemas[i]

		name := decl.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}

		if err := declValidate.StructExcept(decl, "Fields"); err != nil {
			addValidationErrors(res, err, name, "")
		}

		if _, ok := seenSchemas[decl.Name]; ok && decl.Name != "" {
			res.AddError(diagnostic.CodeDuplicateSchema,
				fmt.Sprintf("duplicate schema %q", decl.Name), name, "")
		}

		seenSchemas[decl.Name] = struct{}{}

		seenFields := map[string]struct{}{}

		for j := range decl.Fields {
			fd := &decl.Fields[j]

			if err := declValidate.Struct(fd); err != nil {
				addValidationErrors(res, err, name, fd.Name)
			}

			if _, ok := seenFields[fd.Name]; ok && fd.Name != "" {
				res.AddError(diagnostic.CodeDuplicateField,
					fmt.Sprintf("duplicate field %q", fd.Name), name, fd.Name)
			}

			seenFields[fd.Name] = struct{}{}
		}
	}

	return res
}

func addValidationErrors(res *diagnostic.Diagnostics, err error, schemaName, fieldName string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError(diagnostic.CodeInvalidDeclaration, err.Error(), schemaName, fieldName)
		return
	}

	for _, fe := range verrs {
		msg := fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s fails %q (%s)", fe.Field(), fe.Tag(), fe.Param())
		}

		res.AddError(diagnostic.CodeInvalidDeclaration, msg, schemaName, fieldName)
	}
}
