// Package provider defines the supplier metadata contract and the HTTP
// clients that implement it.
//
// Each supplier exposes lookup-by-identifier and lookup-by-barcode
// capabilities returning provider-specific records. The Registry fans a
// lookup out to every enabled provider concurrently and folds the results
// into a single response, collecting per-provider failures as notices so one
// supplier outage never hides the others. Interactive re-authentication is
// modeled as a response field, never as an error.
package provider
