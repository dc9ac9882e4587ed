// Package lookup owns the cancellation and debounce discipline for outbound
// metadata queries.
//
// Each logical channel (metadata, existence check, barcode) holds at most one
// outstanding request. Issuing a new request on a channel cancels the old one
// before the new one starts, and a superseded request's late result is
// swallowed so it can never overwrite state written by a newer request.
// Cancellation is an explicit result kind, never an error: callers treat it
// as a silent no-op completion.
package lookup
