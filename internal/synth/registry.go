package synth

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/match"
)

// ErrDuplicateFamily is returned when a family name is registered twice.
var ErrDuplicateFamily = errors.New("family already registered")

// Registry maps schema base names to their synthesized families.
// Relationship fields find the shapes and resolver of their related schema here.
type Registry struct {
	families map[string]*Family
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{families: map[string]*Family{}}
}

// Register adds a family.
func (r *Registry) Register(f *Family) error {
	if _, ok := r.families[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFamily, f.Name)
	}

	r.families[f.Name] = f

	return nil
}

// Lookup returns the family registered under name.
func (r *Registry) Lookup(name string) (*Family, bool) {
	f, ok := r.families[name]
	return f, ok
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	return len(r.families)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Link checks that every relationship member points at a registered family
// that has the shapes the member needs. Families with unresolved references are
// reported with missing_related_shape and removed, repeatedly, until every
// remaining family links.
func (r *Registry) Link() diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for {
		broken := map[string]bool{}

		for _, name := range r.Names() {
			f := r.families[name]
			for _, d := range r.linkFamily(f) {
				diags.Add(d)
				broken[name] = true
			}
		}

		if len(broken) == 0 {
			return diags
		}

		for name := range broken {
			delete(r.families, name)
		}
	}
}

func (r *Registry) linkFamily(f *Family) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic

	missing := func(field, msg string, suggestions []string) {
		out = append(out, diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        diagnostic.CodeMissingRelatedShape,
			Message:     msg,
			Schema:      f.Name,
			Field:       field,
			Suggestions: suggestions,
		})
	}

	for _, rule := range f.Relationships() {
		ref := rule.Relationship

		related, ok := r.families[ref.Schema]
		if !ok {
			missing(rule.Field, fmt.Sprintf("related schema %q has not been processed", ref.Schema),
				match.Suggest(ref.Schema, r.Names()))

			continue
		}

		if rule.InInstance && !related.HasInstance() {
			missing(rule.Field, fmt.Sprintf("related schema %q has no Instance shape", ref.Schema), nil)
		}

		if rule.Nested && !related.HasOverride() {
			missing(rule.Field,
				fmt.Sprintf("related schema %q has no Override shape; use source: plain", ref.Schema), nil)
		}

		for _, comp := range ref.Components {
			if _, ok := r.families[comp]; !ok {
				missing(rule.Field, fmt.Sprintf("component schema %q has not been processed", comp),
					match.Suggest(comp, r.Names()))
			}
		}
	}

	return out
}

// Order returns the families with related families first. Names break ties.
// Relationship cycles are allowed; their members are appended in name order
// and reported with a relationship_cycle info.
func (r *Registry) Order() ([]*Family, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	names := r.Names()
	index := make(map[string]int, len(names))

	for i, name := range names {
		index[name] = i
	}

	order, cyclic := dependencyOrder(len(names), func(i int) []int {
		var deps []int

		for _, rule := range r.families[names[i]].Relationships() {
			j, ok := index[rule.Relationship.Schema]
			if !ok {
				continue
			}

			if j == i {
				diags.AddInfo(diagnostic.CodeRelationshipCycle,
					"schema relates to itself", names[i], rule.Field)

				continue
			}

			deps = append(deps, j)
		}

		return deps
	})

	out := make([]*Family, 0, len(names))
	for _, i := range order {
		out = append(out, r.families[names[i]])
	}

	if len(cyclic) > 0 {
		members := make([]string, 0, len(cyclic))
		for _, i := range cyclic {
			out = append(out, r.families[names[i]])
			members = append(members, names[i])
		}

		for _, name := range members {
			diags.AddInfo(diagnostic.CodeRelationshipCycle,
				"relationship cycle involving "+strings.Join(members, ", "), name, "")
		}
	}

	return out, diags
}
