// Package store persists inventory parts, their supplier rows, and named
// session snapshots in SQLite.
//
// Writes go through a small busy-retry wrapper because the CLI and the bulk
// session's background enrichment may hit the database concurrently. Duplicate
// detection lives here: Create refuses a part whose part number or managed
// supplier numbers collide with an existing row unless the caller explicitly
// overrides, and reports the colliding candidates so the caller can present
// them.
package store
