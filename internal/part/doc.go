// Package part defines the domain model shared across the intake engine:
// normalized identifiers, supplier metadata records, merged lookup results,
// the form-facing draft, and bulk-scan session rows.
//
// Types here carry no behavior beyond normalization and classification
// helpers. Persistence, lookup, and merge semantics live in their own
// packages; treat this package as the vocabulary they all speak.
package part
