// Package intake owns the commit protocol for the working draft.
//
// A draft moves Draft -> Submitting -> one of Committed, DuplicateDetected,
// or Rejected. Duplicate detection is advisory on the first pass: the caller
// can inspect the colliding candidates, allow the duplicate, and resubmit.
// Resubmitting a conflicted draft without allowing it is a hard rejection.
// Numeric form fields stay strings until submit, where unparseable values
// coerce to zero rather than failing the commit.
package intake
