// Package barcode turns raw scanner payloads into structured scan events.
//
// Two shapes are recognized: ISO 15434 style structured payloads (the "[)>"
// envelope emitted by 2D DataMatrix labels) and plain linear payloads where
// the raw value is the identifier verbatim. A scan whose identifier is empty
// after normalization is rejected outright so callers can ignore it without
// touching any state.
package barcode
