// Package analyze discovers schema declarations in Go source.
//
// It loads packages with golang.org/x/tools/go/packages and turns every
// struct carrying a blank marker field into a schema.Declaration:
//
//	type Product struct {
//		_ struct{} `resolvable:"pattern=full,policy=opt_in"`
//
//		Title    string    `json:"title" resolve:"overridable"`
//		Shipping *Shipping `json:"shipping" resolve:"overridable(Shipping.carrier, string)"`
//		Label    string    `resolve:"-"`
//	}
//
// Marker options:
//   - pattern=full|non_instantiable
//   - policy=opt_in|all_overridable
//   - storage (storage-aware variant)
//
// The resolve tag holds ';'-separated annotation tokens. The pseudo token
// read_only marks the field immutable. A "-" tag or an unexported field is
// computed and dropped by extraction.
package analyze
