package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"resolvable-generator/internal/common"
	"resolvable-generator/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// Struct tag keys read by the analyzer.
const (
	MarkerTag = "resolvable"
	FieldTag  = "resolve"
)

const readOnlyToken = "read_only"

// ErrInvalidMarker is returned for marker options that cannot be parsed.
var ErrInvalidMarker = errors.New("invalid resolvable marker")

// Analyzer loads Go packages and extracts schema declarations.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates a new Analyzer. A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{logger: logger}
}

// LoadPackages loads the specified packages and returns the declarations of
// every marked struct, package by package in pattern order and by type name
// inside a package.
// Patterns are standard Go package patterns (e.g., "./examples/catalog").
func (a *Analyzer) LoadPackages(patterns ...string) ([]schema.Declaration, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	var decls []schema.Declaration

	for _, pkg := range pkgs {
		found, err := a.processPackage(pkg.Types)
		if err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}

		a.logger.Debug("package analyzed", zap.String("package", pkg.PkgPath), zap.Int("schemas", len(found)))
		decls = append(decls, found...)
	}

	return decls, nil
}

// processPackage extracts declarations from a type-checked package.
func (a *Analyzer) processPackage(pkg *types.Package) ([]schema.Declaration, error) {
	var decls []schema.Declaration

	scope := pkg.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		decl, ok, err := declaration(pkg, name, st)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if ok {
			decls = append(decls, decl)
		}
	}

	return decls, nil
}

// declaration converts a marked struct. ok is false for unmarked structs.
func declaration(pkg *types.Package, name string, st *types.Struct) (schema.Declaration, bool, error) {
	decl := schema.Declaration{Name: name}
	marked := false
	imports := map[string]struct{}{}

	qualifier := func(other *types.Package) string {
		if other == pkg {
			return ""
		}

		imports[other.Path()] = struct{}{}

		return other.Name()
	}

	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if field.Name() == "_" {
			opts, ok := tag.Lookup(MarkerTag)
			if !ok {
				continue
			}

			if err := parseMarker(opts, &decl.Options); err != nil {
				return schema.Declaration{}, false, err
			}

			marked = true

			continue
		}

		if field.Embedded() {
			continue
		}

		decl.Fields = append(decl.Fields, fieldDecl(field, tag, qualifier))
	}

	if !marked {
		return schema.Declaration{}, false, nil
	}

	for path := range imports {
		decl.Imports = append(decl.Imports, path)
	}

	slices.Sort(decl.Imports)

	return decl, true, nil
}

func fieldDecl(field *types.Var, tag reflect.StructTag, qualifier types.Qualifier) schema.FieldDecl {
	goName := field.Name()
	jsonName, hasJSON := jsonName(tag)

	f := schema.FieldDecl{
		Name: common.SnakeCase(goName),
		Type: types.TypeString(field.Type(), qualifier),
	}

	if hasJSON {
		f.Name = jsonName
		f.Tags = map[string]string{"json": tag.Get("json")}
	}

	if common.ExportedName(f.Name) != goName {
		f.GoName = goName
	}

	tokens := tag.Get(FieldTag)
	if tokens == "-" || !field.Exported() {
		f.Computed = true
		return f
	}

	for _, tok := range strings.Split(tokens, ";") {
		tok = strings.TrimSpace(tok)

		switch tok {
		case "":
		case readOnlyToken:
			f.ReadOnly = true
		default:
			f.Annotations = append(f.Annotations, tok)
		}
	}

	return f
}

// jsonName returns the json key of a field, if it names one.
func jsonName(tag reflect.StructTag) (string, bool) {
	value, ok := tag.Lookup("json")
	if !ok {
		return "", false
	}

	name, _, _ := strings.Cut(value, ",")
	if name == "" || name == "-" {
		return "", false
	}

	return name, true
}

// parseMarker parses "pattern=full,policy=opt_in,storage".
func parseMarker(opts string, out *schema.Options) error {
	for _, opt := range strings.Split(opts, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")

		switch key {
		case "":
		case "pattern":
			out.Pattern = schema.Pattern(value)
		case "policy":
			out.DefaultOverridePolicy = schema.Policy(value)
		case "storage":
			out.StorageAware = true
		default:
			return fmt.Errorf("%w: unknown option %q", ErrInvalidMarker, key)
		}
	}

	return nil
}
