package schema

import (
	"errors"
	"fmt"
	"strings"

	"resolvable-generator/internal/common"
)

// ErrInvalidToken is returned for annotation tokens that cannot be parsed.
var ErrInvalidToken = errors.New("invalid annotation token")

var markerNames = map[string]MarkerKind{
	"overridable":             MarkerOverridable,
	"identity_excluded":       MarkerIdentityExcluded,
	"definition_only":         MarkerDefinitionOnly,
	"instance_only":           MarkerInstanceOnly,
	"relationship":            MarkerRelationship,
	"resolvable_relationship": MarkerResolvableRelationship,
}

// ParseToken parses one annotation token.
// It returns the marker and true for marker tokens, or false for host
// attributes which are returned untouched by the caller.
func ParseToken(raw string) (Marker, bool, error) {
	tok := strings.TrimSpace(raw)
	if tok == "" {
		return Marker{}, false, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	name, argText, hasParens, err := splitCall(tok)
	if err != nil {
		return Marker{}, false, err
	}

	kind, ok := markerNames[common.SnakeCase(name)]
	if !ok {
		return Marker{}, false, nil
	}

	m := Marker{Kind: kind, Raw: tok}
	if !hasParens || strings.TrimSpace(argText) == "" {
		return m, true, nil
	}

	parts, err := splitTopLevel(argText)
	if err != nil {
		return Marker{}, false, fmt.Errorf("%w %q: %w", ErrInvalidToken, tok, err)
	}

	for _, p := range parts {
		arg, err := parseArg(p)
		if err != nil {
			return Marker{}, false, fmt.Errorf("%w %q: %w", ErrInvalidToken, tok, err)
		}

		m.Args = append(m.Args, arg)
	}

	return m, true, nil
}

// splitCall splits "name(args)" into its name and argument text.
func splitCall(tok string) (name, args string, hasParens bool, err error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 {
		if strings.ContainsAny(tok, ")[]") {
			return "", "", false, fmt.Errorf("%w %q: unbalanced delimiters", ErrInvalidToken, tok)
		}

		return tok, "", false, nil
	}

	if !strings.HasSuffix(tok, ")") {
		return "", "", false, fmt.Errorf("%w %q: missing closing parenthesis", ErrInvalidToken, tok)
	}

	name = strings.TrimSpace(tok[:open])
	if name == "" {
		return "", "", false, fmt.Errorf("%w %q: missing name", ErrInvalidToken, tok)
	}

	return name, tok[open+1 : len(tok)-1], true, nil
}

// splitTopLevel splits on commas that are not nested inside brackets or parentheses.
func splitTopLevel(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced delimiters")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, errors.New("unbalanced delimiters")
	}

	parts = append(parts, strings.TrimSpace(s[start:]))

	for _, p := range parts {
		if p == "" {
			return nil, errors.New("empty argument")
		}
	}

	return parts, nil
}

// parseArg parses "value", "key: value" or "[a, b]".
// Type expressions such as "[]string" are plain values.
func parseArg(s string) (Arg, error) {
	var arg Arg

	if !strings.HasPrefix(s, "[") {
		if key, value, ok := strings.Cut(s, ":"); ok {
			arg.Key = strings.TrimSpace(key)
			s = strings.TrimSpace(value)

			if arg.Key == "" || s == "" {
				return Arg{}, errors.New("malformed keyword argument")
			}
		}
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		arg.List = []string{}

		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner != "" {
			items, err := splitTopLevel(inner)
			if err != nil {
				return Arg{}, err
			}

			arg.List = items
		}

		return arg, nil
	}

	arg.Value = strings.Trim(s, `"`)

	return arg, nil
}
