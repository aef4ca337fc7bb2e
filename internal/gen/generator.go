package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"go.uber.org/zap"

	"resolvable-generator/internal/synth"
	"resolvable-generator/resolve"
)

const generatorName = "resolvable-generator"

// DefaultRuntimeImport is the import path of the runtime package used by generated code.
const DefaultRuntimeImport = "resolvable-generator/resolve"

// Config holds configuration for code generation.
type Config struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir receives unformatted sidecar files when formatting fails.
	OutputDir string
	// RuntimeImport is the import path of the resolve package.
	RuntimeImport string
	// Duplicates is the duplicate-override policy baked into every family.
	Duplicates resolve.DuplicatePolicy
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		PackageName:      "resolvable",
		OutputDir:        "./generated",
		RuntimeImport:    DefaultRuntimeImport,
		GenerateComments: true,
	}
}

// Generator emits Go source for synthesized families.
type Generator struct {
	config Config
	logger *zap.Logger
}

// NewGenerator creates a Generator. A nil logger disables logging.
func NewGenerator(config Config, logger *zap.Logger) *Generator {
	if config.RuntimeImport == "" {
		config.RuntimeImport = DefaultRuntimeImport
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "product_resolvable.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate emits one file per family of a linked registry, related families first.
func (g *Generator) Generate(reg *synth.Registry) ([]GeneratedFile, error) {
	families, _ := reg.Order()

	files := make([]GeneratedFile, 0, len(families))

	for _, f := range families {
		file, err := g.GenerateFamily(f)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", f.Name, err)
		}

		files = append(files, *file)
	}

	g.logger.Info("families generated", zap.Int("files", len(files)))

	return files, nil
}

// GenerateFamily emits the file of a single family.
func (g *Generator) GenerateFamily(f *synth.Family) (*GeneratedFile, error) {
	data := g.buildFileData(f)

	var buf bytes.Buffer
	if err := familyTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	g.logger.Debug("family generated", zap.String("schema", f.Name), zap.String("file", data.Filename))

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}

var familyTemplate = template.Must(template.New("family").Parse(`// Code generated by {{.Generator}}. DO NOT EDIT.

package {{.PackageName}}

import (
{{range $i, $group := .Imports}}{{if $i}}
{{end}}{{range $group}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}{{end}})

{{template "struct" .Definition}}
{{with .Instance}}{{template "struct" .}}{{end}}
{{with .Override}}{{template "struct" .}}{{end}}
{{if .Comments}}// {{.SourceType}} identifies the record a {{.Resolved.Name}} was built from.
{{end}}type {{.SourceType}} = resolve.Source

{{template "struct" .Resolved}}
{{if .Comments}}// ID returns the identity of the originating definition or instance.
{{end}}func (r {{.Resolved.Name}}) ID() string {
	return r.Source.ID
}

func {{.FamilyFunc}}() {{.FamilyType}} {
	return {{.FamilyType}}{
		DefinitionID: func(d {{.Definition.Name}}) string { return d.ID },
		OverrideID:   func(o {{.OverrideType}}) string { return o.DefinitionID },
		InstanceID:   func(i {{.InstanceType}}) string { return i.ID },
		Definition:   {{.DefinitionMerge.Name}},
{{with .InstanceMerge}}		Instance:     {{.Name}},
{{end}}{{with .Duplicates}}		Duplicates:   {{.}},
{{end}}	}
}

{{with .DefinitionMerge}}func {{.Name}}({{.Signature}}) ({{.Return}}, error) {
{{if .NeedsErr}}	var err error

{{end}}	r := {{.Return}}{
{{range .Literal}}		{{.Field}}: {{.Expr}},
{{end}}	}
{{if .Stmts}}
{{range .Stmts}}	{{.}}
{{end}}{{end}}{{if .Overrides}}
	if o != nil {
{{range .Overrides}}		{{.}}
{{end}}	}
{{end}}
	return r, nil
}
{{end}}
{{with .InstanceMerge}}func {{.Name}}({{.Signature}}) {{.Return}} {
	r := {{.Return}}{
{{range .Literal}}		{{.Field}}: {{.Expr}},
{{end}}	}
{{if .Stmts}}
{{range .Stmts}}	{{.}}
{{end}}{{end}}
	return r
}
{{end}}
{{if .Comments}}// Resolve{{.Definition.Name}} merges a definition with its override, which may be nil.
{{end}}{{if .Override}}func Resolve{{.Definition.Name}}(definition {{.Definition.Name}}, override *{{.Override.Name}}) ({{.Resolved.Name}}, error) {
	return {{.FamilyFunc}}().ResolveDefinition(definition, override)
}{{else}}func Resolve{{.Definition.Name}}(definition {{.Definition.Name}}) ({{.Resolved.Name}}, error) {
	return {{.FamilyFunc}}().ResolveDefinition(definition, nil)
}{{end}}

{{if .Comments}}// Resolve{{.Definition.Name}}s resolves definitions in order, each with the override keyed to its id.
{{end}}{{if .Override}}func Resolve{{.Definition.Name}}s(definitions []{{.Definition.Name}}, overrides []{{.Override.Name}}) ([]{{.Resolved.Name}}, error) {
	return {{.FamilyFunc}}().ResolveDefinitions(definitions, overrides)
}{{else}}func Resolve{{.Definition.Name}}s(definitions []{{.Definition.Name}}) ([]{{.Resolved.Name}}, error) {
	return {{.FamilyFunc}}().ResolveDefinitions(definitions, nil)
}{{end}}
{{if .Instance}}
{{if .Comments}}// Resolve{{.Instance.Name}} copies an instance into a resolved record.
{{end}}func Resolve{{.Instance.Name}}(instance {{.Instance.Name}}) {{.Resolved.Name}} {
	return {{.FamilyFunc}}().ResolveInstance(instance)
}

{{if .Comments}}// Resolve{{.Instance.Name}}s resolves instances in order.
{{end}}func Resolve{{.Instance.Name}}s(instances []{{.Instance.Name}}) []{{.Resolved.Name}} {
	return {{.FamilyFunc}}().ResolveInstances(instances)
}
{{end}}
{{if .Comments}}// Resolve{{.Plural}} returns the definition-derived records followed by the instance-derived records.
{{end}}func Resolve{{.Plural}}(definitions []{{.Definition.Name}}{{if .Override}}, overrides []{{.Override.Name}}{{end}}{{if .Instance}}, instances []{{.Instance.Name}}{{end}}) ([]{{.Resolved.Name}}, error) {
	return {{.FamilyFunc}}().Resolve(definitions, {{if .Override}}overrides{{else}}nil{{end}}, {{if .Instance}}instances{{else}}nil{{end}})
}

{{define "struct"}}{{if .Doc}}// {{.Doc}}
{{end}}type {{.Name}} struct {
{{range .Fields}}	{{.GoName}} {{.Type}}{{with .Tag}} {{.}}{{end}}{{with .Comment}} // {{.}}{{end}}
{{end}}}
{{with .Init}}
{{with .Doc}}// {{.}}
{{end}}func {{.Func}}({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}} {{$p.Type}}{{end}}) {{$.Name}} {
	return {{$.Name}}{
{{range .Assign}}		{{.Field}}: {{.Expr}},
{{end}}	}
}
{{end}}{{end}}
`))
