// Package merge combines supplier metadata records into a single merged view
// and applies the ranked suggestion to a working draft.
//
// Records are cross-linked only through a shared manufacturer part number;
// fields are never merged across records that disagree on it. Locally stored
// attachments are always presented ahead of remotely sourced ones within
// each category, and the ordering is deterministic across repeated merges.
package merge
