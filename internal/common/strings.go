package common

import (
	"strings"
	"unicode"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// initialisms are rendered fully upper-cased in exported Go names.
var initialisms = map[string]struct{}{
	"api":  {},
	"http": {},
	"id":   {},
	"json": {},
	"url":  {},
	"uuid": {},
}

// ExportedName converts a declaration name into an exported Go identifier.
// Examples:
//   - "title" -> "Title"
//   - "shipping_carrier" -> "ShippingCarrier"
//   - "definition_id" -> "DefinitionID"
//   - "unitPrice" -> "UnitPrice"
func ExportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var sb strings.Builder

	for _, part := range parts {
		if _, ok := initialisms[strings.ToLower(part)]; ok {
			sb.WriteString(strings.ToUpper(part))
			continue
		}

		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	return sb.String()
}

// SnakeCase converts a Go identifier into a lower snake_case declaration name.
// Examples:
//   - "Title" -> "title"
//   - "ShippingCarrier" -> "shipping_carrier"
//   - "DefinitionID" -> "definition_id"
//   - "XMLParser" -> "xml_parser"
func SnakeCase(name string) string {
	runes := []rune(name)

	var sb strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// JoinLeafName builds the flattened name of a nested-leaf override field.
// Example: ("shipping", "carrier") -> "shipping_carrier".
func JoinLeafName(parent, leaf string) string {
	return parent + "_" + leaf
}

// LowerCamel converts an exported Go identifier into an unexported one.
// A leading initialism is lower-cased as a whole.
// Examples:
//   - "Title" -> "title"
//   - "SKU" -> "sku"
//   - "URLPath" -> "urlPath"
func LowerCamel(name string) string {
	runes := []rune(name)

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			break
		}

		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}

		runes[i] = unicode.ToLower(r)
	}

	return string(runes)
}

// Plural returns a naive English plural of a type name.
// Examples:
//   - "Product" -> "Products"
//   - "Address" -> "Addresses"
//   - "Category" -> "Categories"
func Plural(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	case len(lower) > 1 && strings.HasSuffix(lower, "y") && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}
