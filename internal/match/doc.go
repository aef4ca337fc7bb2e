// Package match ranks "did you mean" suggestions for diagnostics.
//
// Key functions:
//   - Normalize: folds identifiers so that ShippingInfo, shipping_info and
//     shippingInfo compare equal
//   - Distance: edit distance between two strings
//   - Suggest: ranks candidate names by similarity to an unknown name
package match
