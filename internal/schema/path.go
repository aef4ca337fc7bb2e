package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"resolvable-generator/internal/common"
)

// Path parse errors. Classifier diagnostics are keyed off these.
var (
	ErrEmptyPath            = errors.New("empty path")
	ErrExplicitRootRequired = errors.New("path must name an explicit root type")
	ErrMissingLeaf          = errors.New("path names no leaf member")
	ErrInvalidPath          = errors.New("invalid path")
)

// Path is a parsed "Root.leaf" expression.
type Path struct {
	Root    string
	Members []string
}

// Leaf returns the last member, or "" if the path has none.
func (p Path) Leaf() string {
	if len(p.Members) == 0 {
		return ""
	}

	return p.Members[len(p.Members)-1]
}

// String returns the canonical path text.
func (p Path) String() string {
	return strings.Join(append([]string{p.Root}, p.Members...), ".")
}

// ParsePath parses a path expression with an explicit root type.
// Supports: "Root.leaf", "\Root.leaf" and deeper "Root.a.b".
// A leading dot (implicit root) or a lone lower-case member is rejected with
// ErrExplicitRootRequired; a lone type name is rejected with ErrMissingLeaf.
func ParsePath(expr string) (Path, error) {
	s := strings.TrimPrefix(strings.TrimSpace(expr), `\`)
	if s == "" {
		return Path{}, ErrEmptyPath
	}

	if strings.HasPrefix(s, ".") {
		return Path{}, fmt.Errorf("%w: %q", ErrExplicitRootRequired, expr)
	}

	parts := strings.Split(s, ".")
	root := parts[0]

	if !isIdent(root) {
		return Path{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, expr, root)
	}

	if len(parts) == 1 {
		if startsUpper(root) {
			return Path{}, fmt.Errorf("%w: %q", ErrMissingLeaf, expr)
		}

		return Path{}, fmt.Errorf("%w: %q", ErrExplicitRootRequired, expr)
	}

	members := parts[1:]
	for i, m := range members {
		if m == "" {
			if i == len(members)-1 {
				return Path{}, fmt.Errorf("%w: %q", ErrMissingLeaf, expr)
			}

			return Path{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, expr)
		}

		if !isIdent(m) {
			return Path{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, expr, m)
		}
	}

	return Path{Root: root, Members: members}, nil
}

// Container is the shape of a relationship field's value.
type Container int

const (
	ContainerSingle Container = iota
	ContainerOptional
	ContainerArray
	ContainerArrayOptional
	ContainerSet
	ContainerSetOptional
)

// String returns a human-readable container name.
func (c Container) String() string {
	switch c {
	case ContainerSingle:
		return "single"
	case ContainerOptional:
		return "optional"
	case ContainerArray:
		return "array"
	case ContainerArrayOptional:
		return "array_optional"
	case ContainerSet:
		return "set"
	case ContainerSetOptional:
		return "set_optional"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the container by name.
func (c Container) MarshalYAML() (any, error) {
	return c.String(), nil
}

// IsCollection reports whether the container holds many values.
func (c Container) IsCollection() bool {
	return c >= ContainerArray
}

// IsSet reports whether the container is unordered.
func (c Container) IsSet() bool {
	return c == ContainerSet || c == ContainerSetOptional
}

// IsOptional reports whether the container may be absent.
func (c Container) IsOptional() bool {
	return c == ContainerOptional || c == ContainerArrayOptional || c == ContainerSetOptional
}

// TypeExpr is a declared type split into its container and element.
type TypeExpr struct {
	Container Container
	Elem      string
}

// ParseTypeExpr recognizes the container forms T, *T, []T, *[]T, Set[T] and *Set[T].
func ParseTypeExpr(expr string) TypeExpr {
	s := strings.TrimSpace(expr)

	optional := false
	if rest, ok := strings.CutPrefix(s, "*"); ok {
		optional = true
		s = rest
	}

	switch {
	case strings.HasPrefix(s, "[]"):
		c := ContainerArray
		if optional {
			c = ContainerArrayOptional
		}

		return TypeExpr{Container: c, Elem: s[2:]}

	case strings.HasPrefix(s, "Set[") && strings.HasSuffix(s, "]"):
		c := ContainerSet
		if optional {
			c = ContainerSetOptional
		}

		return TypeExpr{Container: c, Elem: s[4 : len(s)-1]}

	case optional:
		return TypeExpr{Container: ContainerOptional, Elem: s}

	default:
		return TypeExpr{Container: ContainerSingle, Elem: s}
	}
}

// isIdent checks if a string is a valid identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}

	return false
}
