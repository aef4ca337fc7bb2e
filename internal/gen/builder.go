package gen

import (
	"fmt"
	"go/token"
	"path"
	"slices"
	"sort"
	"strings"

	"resolvable-generator/internal/common"
	"resolvable-generator/internal/schema"
	"resolvable-generator/internal/synth"
	"resolvable-generator/resolve"
)

// fileData holds everything the family template needs.
type fileData struct {
	Generator   string
	PackageName string
	Filename    string
	Imports     [][]importSpec
	Comments    bool

	Name       string
	Plural     string
	FamilyFunc string
	FamilyType string

	Definition structData
	Instance   *structData
	Override   *structData
	Resolved   structData
	SourceType string

	OverrideType string
	InstanceType string

	DefinitionMerge mergeFunc
	InstanceMerge   *mergeFunc
	Duplicates      string
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

type structData struct {
	Name   string
	Doc    string
	Fields []fieldData
	Init   *initData
}

type fieldData struct {
	GoName  string
	Type    string
	Tag     string
	Comment string
}

type initData struct {
	Func   string
	Doc    string
	Params []paramData
	Assign []assignData
}

type paramData struct {
	Name string
	Type string
}

type assignData struct {
	Field string
	Expr  string
}

// mergeFunc is the body of a generated merge function.
type mergeFunc struct {
	Name      string
	Signature string
	// Literal are the members set in the Resolved composite literal.
	Literal   []assignData
	NeedsErr  bool
	Stmts     []string
	Overrides []string
	Return    string
}

func (g *Generator) buildFileData(f *synth.Family) *fileData {
	data := &fileData{
		Generator:   generatorName,
		PackageName: g.config.PackageName,
		Filename:    Filename(f.Name),
		Comments:    g.config.GenerateComments,
		Name:        f.Name,
		Plural:      common.Plural(f.Name),
		FamilyFunc:  familyFunc(f.Name),
		SourceType:  f.Source.TypeName,
	}

	data.Imports = g.imports(f)
	data.OverrideType = overrideType(f)
	data.InstanceType = instanceType(f)
	data.FamilyType = fmt.Sprintf("resolve.Family[%s, %s, %s, %s]",
		f.Definition.TypeName, data.OverrideType, data.InstanceType, f.Resolved.TypeName)

	data.Definition = buildStruct(f.Definition,
		fmt.Sprintf("%s is the canonical, storable %s record.", f.Definition.TypeName, f.Name))

	if f.HasInstance() {
		inst := buildStruct(f.Instance,
			fmt.Sprintf("%s is an ad-hoc %s record outside the catalog. Overrides never apply to it.",
				f.Instance.TypeName, f.Name))
		data.Instance = &inst
	}

	if f.HasOverride() {
		ovr := buildStruct(f.Override,
			fmt.Sprintf("%s is a sparse patch over the %s with the same id. Nil members are absent.",
				f.Override.TypeName, f.Definition.TypeName))
		data.Override = &ovr
	}

	data.Resolved = buildStruct(f.Resolved,
		fmt.Sprintf("%s is the merged read-model of a %s. It is derived, never stored. Reference members are copied one level deep.", f.Resolved.TypeName, f.Name))

	data.DefinitionMerge = definitionMerge(f)

	if f.HasInstance() {
		m := instanceMerge(f)
		data.InstanceMerge = &m
	}

	if g.config.Duplicates == resolve.LastWins {
		data.Duplicates = "resolve.LastWins"
	}

	if !data.Comments {
		for _, s := range []*structData{&data.Definition, data.Instance, data.Override, &data.Resolved} {
			if s == nil {
				continue
			}

			s.Doc = ""
			if s.Init != nil {
				s.Init.Doc = ""
			}
		}
	}

	return data
}

// imports groups the family imports the way goimports does: the standard
// library first, then third-party paths, then the generator's own module.
func (g *Generator) imports(f *synth.Family) [][]importSpec {
	paths := append([]string{g.config.RuntimeImport}, f.Imports...)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	module := path.Dir(g.config.RuntimeImport) + "/"

	var std, external, own []importSpec

	for _, p := range paths {
		first, _, _ := strings.Cut(p, "/")

		switch {
		case p == "":
			continue
		case p == g.config.RuntimeImport || strings.HasPrefix(p, module):
			own = append(own, importSpec{Path: p})
		case strings.Contains(first, "."):
			external = append(external, importSpec{Path: p})
		default:
			std = append(std, importSpec{Path: p})
		}
	}

	var groups [][]importSpec

	for _, group := range [][]importSpec{std, external, own} {
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

func buildStruct(d *synth.TypeDescriptor, doc string) structData {
	s := structData{Name: d.TypeName, Doc: doc}

	for _, f := range d.Fields {
		s.Fields = append(s.Fields, fieldData{
			GoName:  f.GoName,
			Type:    f.GoType(),
			Tag:     renderTag(f.Tags),
			Comment: fieldComment(d.Kind, f),
		})
	}

	if len(d.InitParams) > 0 || d.GeneratedIdentity {
		s.Init = buildInit(d)
	}

	return s
}

func buildInit(d *synth.TypeDescriptor) *initData {
	init := &initData{Func: "New" + d.TypeName}

	if d.GeneratedIdentity {
		init.Doc = fmt.Sprintf("%s returns a %s with a fresh identity.", init.Func, d.TypeName)
		init.Assign = append(init.Assign, assignData{
			Field: common.ExportedName(d.IdentityField),
			Expr:  "resolve.NewID()",
		})
	} else {
		init.Doc = fmt.Sprintf("%s returns an empty %s for the given definition.", init.Func, d.TypeName)
	}

	for _, name := range d.InitParams {
		f, ok := d.Field(name)
		if !ok {
			continue
		}

		param := paramName(f.GoName)
		init.Params = append(init.Params, paramData{Name: param, Type: f.GoType()})
		init.Assign = append(init.Assign, assignData{Field: f.GoName, Expr: param})
	}

	return init
}

func definitionMerge(f *synth.Family) mergeFunc {
	m := mergeFunc{
		Name:   "resolve" + f.Definition.TypeName,
		Return: f.Resolved.TypeName,
	}

	ovrParam := "_ *" + overrideType(f)
	if f.HasOverride() {
		ovrParam = "o *" + f.Override.TypeName
	}

	m.Signature = fmt.Sprintf("d %s, %s", f.Definition.TypeName, ovrParam)
	m.Literal = append(m.Literal, assignData{Field: "Source", Expr: "resolve.FromDefinition(d.ID)"})

	if f.StorageAware {
		m.Stmts = append(m.Stmts, "id := d.ID", "r.DefinitionID = &id")
	}

	for _, rule := range f.Merge {
		if !rule.InDefinition {
			continue
		}

		switch rule.Action {
		case synth.MergeRelationship:
			m.NeedsErr = true
			m.Stmts = append(m.Stmts, relationshipStmts(f, rule, false)...)

			continue
		case synth.MergeWhole:
			m.Overrides = append(m.Overrides, fmt.Sprintf("r.%[1]s = resolve.Whole(r.%[1]s, o.%[1]s)", rule.GoName))
		case synth.MergeLeaf:
			m.Overrides = append(m.Overrides, leafStmts(f, rule)...)
		}

		m.Literal = append(m.Literal, assignData{Field: rule.GoName, Expr: copyExpr(f.Definition, rule, "d")})
	}

	return m
}

func instanceMerge(f *synth.Family) mergeFunc {
	m := mergeFunc{
		Name:      "resolve" + f.Instance.TypeName,
		Signature: "i " + f.Instance.TypeName,
		Return:    f.Resolved.TypeName,
	}

	m.Literal = append(m.Literal, assignData{Field: "Source", Expr: "resolve.FromInstance(i.ID)"})

	if f.StorageAware {
		m.Literal = append(m.Literal, assignData{Field: "DefinitionID", Expr: "i.DefinitionID"})
	}

	for _, rule := range f.Merge {
		if !rule.InInstance {
			continue
		}

		if rule.Action == synth.MergeRelationship {
			m.Stmts = append(m.Stmts, relationshipStmts(f, rule, true)...)
			continue
		}

		m.Literal = append(m.Literal, assignData{Field: rule.GoName, Expr: copyExpr(f.Instance, rule, "i")})
	}

	return m
}

// copyExpr reads a member from the input record. Pointer, slice and map
// members are copied one level deep so the resolved record owns them.
func copyExpr(shape *synth.TypeDescriptor, rule synth.MergeRule, recv string) string {
	expr := recv + "." + rule.GoName

	field, ok := shape.Field(rule.Field)
	if !ok {
		return expr
	}

	typ := field.GoType()

	switch {
	case strings.HasPrefix(typ, "*"):
		return "resolve.Clone(" + expr + ")"
	case strings.HasPrefix(typ, "[]"):
		return "resolve.CloneSlice(" + expr + ")"
	case strings.HasPrefix(typ, "map["):
		return "resolve.CloneMap(" + expr + ")"
	default:
		return expr
	}
}

// relationshipStmts resolves a relationship member through the related family.
func relationshipStmts(f *synth.Family, rule synth.MergeRule, instance bool) []string {
	ref := rule.Relationship
	call := familyFunc(ref.Schema) + "()"

	if instance {
		return []string{fmt.Sprintf("r.%s = %s.%s(i.%s)", rule.GoName, call, instanceOp(ref.Container), rule.GoName)}
	}

	var stmts []string

	ovrArg := "nil"

	if rule.Nested && f.HasOverride() {
		ovrArg = common.LowerCamel(rule.GoName) + "Override"

		related := synth.TypeName(ref.Schema, synth.ShapeOverride)
		if ref.Container.IsCollection() {
			ovrArg += "s"
			stmts = append(stmts, fmt.Sprintf("var %s []%s", ovrArg, related))
		} else {
			stmts = append(stmts, fmt.Sprintf("var %s *%s", ovrArg, related))
		}

		stmts = append(stmts, fmt.Sprintf("if o != nil {\n%s = o.%s\n}", ovrArg, rule.GoName))
	}

	stmts = append(stmts, fmt.Sprintf("if r.%s, err = %s.%s(d.%s, %s); err != nil {\nreturn %s{}, err\n}",
		rule.GoName, call, definitionOp(ref.Container), rule.GoName, ovrArg, f.Resolved.TypeName))

	return stmts
}

func leafStmts(f *synth.Family, rule synth.MergeRule) []string {
	parent, _ := f.Definition.Field(rule.Field)

	helper := "resolve.Leaf"
	parentType := parent.Type

	if rest, ok := strings.CutPrefix(parentType, "*"); ok {
		helper = "resolve.LeafPtr"
		parentType = rest
	}

	stmts := make([]string, 0, len(rule.Leaves))
	for _, leaf := range rule.Leaves {
		stmts = append(stmts, fmt.Sprintf("r.%[1]s = %[2]s(r.%[1]s, o.%[3]s, func(p *%[4]s, v %[5]s) { p.%[6]s = v })",
			rule.GoName, helper, leaf.OverrideGoName, parentType, leaf.Type, leaf.LeafGoName))
	}

	return stmts
}

func definitionOp(c schema.Container) string {
	switch c {
	case schema.ContainerOptional:
		return "ResolveOptional"
	case schema.ContainerArray:
		return "ResolveDefinitions"
	case schema.ContainerArrayOptional:
		return "ResolveOptionalDefinitions"
	case schema.ContainerSet:
		return "ResolveSet"
	case schema.ContainerSetOptional:
		return "ResolveOptionalSet"
	default:
		return "ResolveDefinition"
	}
}

func instanceOp(c schema.Container) string {
	switch c {
	case schema.ContainerOptional:
		return "ResolveOptionalInstance"
	case schema.ContainerArray:
		return "ResolveInstances"
	case schema.ContainerArrayOptional:
		return "ResolveOptionalInstances"
	case schema.ContainerSet:
		return "ResolveInstanceSet"
	case schema.ContainerSetOptional:
		return "ResolveOptionalInstanceSet"
	default:
		return "ResolveInstance"
	}
}

// Filename returns the generated file name for a schema, e.g. "product_variant_resolvable.go".
func Filename(base string) string {
	return common.SnakeCase(base) + "_resolvable.go"
}

func familyFunc(base string) string {
	return common.LowerCamel(base) + "Family"
}

func overrideType(f *synth.Family) string {
	if f.HasOverride() {
		return f.Override.TypeName
	}

	return "resolve.NoOverride"
}

func instanceType(f *synth.Family) string {
	if f.HasInstance() {
		return f.Instance.TypeName
	}

	return "resolve.NoInstance"
}

// paramName derives an initializer parameter from a field name.
func paramName(goName string) string {
	name := common.LowerCamel(goName)
	if token.IsKeyword(name) || name == "resolve" {
		return name + "Value"
	}

	return name
}

// renderTag renders struct tags in key order.
func renderTag(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%q", k, tags[k]))
	}

	return "`" + strings.Join(parts, " ") + "`"
}

func fieldComment(kind synth.ShapeKind, f synth.FieldSpec) string {
	var notes []string

	if f.Leaf != "" {
		notes = append(notes, fmt.Sprintf("patches %s.%s", f.Origin, f.Leaf))
	}

	if !f.Mutable && (kind == synth.ShapeDefinition || kind == synth.ShapeInstance) &&
		f.Name != "id" {
		notes = append(notes, "read-only")
	}

	notes = append(notes, f.Attributes...)

	return strings.Join(notes, ", ")
}
