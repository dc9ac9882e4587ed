// Package session accumulates bulk scan rows ahead of a single batch commit.
//
// Each scan either adds a row or, when the identifier is already present,
// accumulates its scanned quantity onto the existing row. New rows inherit
// location and bin from the previous row, every mutation writes the session
// through to a snapshot so an interrupted session survives a restart, and a
// background enrichment fills in descriptions without blocking further scans.
package session
