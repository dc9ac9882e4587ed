// Package attachments tracks user-stored files (datasheets, images, pinouts,
// reference designs) keyed by part identifier. Lookups feed these into the
// merge so locally stored files always precede remotely sourced ones.
package attachments
