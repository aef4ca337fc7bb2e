// Package diagnostic provides structured errors, warnings and infos raised
// while processing schema declarations.
//
// Key capabilities:
//   - Stable diagnostic codes for every structural rule
//   - Attachment to the offending schema and field
//   - "Did you mean" suggestions
//   - Colored terminal rendering
//
// Diagnostics are only ever raised against the schema shape, never against
// runtime record data.
package diagnostic
