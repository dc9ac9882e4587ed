package barcode

import (
	"errors"
	"strconv"
	"strings"

	"stockbin/internal/part"
)

// StructuredPreamble marks an ISO 15434 envelope. Keyboard-wedge scanners
// deliver it as literal text, so input handlers also use it to detect a
// barcode arriving through a focused text field.
const StructuredPreamble = "[)>"

// ErrEmptyScan is returned when a payload decodes to an empty identifier.
// Callers must ignore the scan entirely: no state mutation, no network call.
var ErrEmptyScan = errors.New("barcode: empty scan")

const (
	recordSeparator = "\x1e"
	groupSeparator  = "\x1d"
	endOfTransmit   = "\x04"
)

// Decode parses a raw scanner payload into a ScanPayload.
func Decode(raw string) (part.ScanPayload, error) {
	if strings.TrimSpace(raw) == "" {
		return part.ScanPayload{}, ErrEmptyScan
	}
	if strings.Contains(raw, StructuredPreamble) {
		return decodeStructured(raw)
	}
	return decodeLinear(raw)
}

func decodeLinear(raw string) (part.ScanPayload, error) {
	id := part.NormalizeIdentifier(raw)
	if id.IsEmpty() {
		return part.ScanPayload{}, ErrEmptyScan
	}
	return part.ScanPayload{
		Kind:          part.ScanLinear,
		RawText:       raw,
		CorrectedText: id.String(),
		Fields: part.ScanFields{
			PartNumber: id,
			Quantity:   1,
		},
	}, nil
}

func decodeStructured(raw string) (part.ScanPayload, error) {
	fields := parseEnvelope(raw)

	// Prefer the manufacturer part field; fall back to the free-text
	// description when it is absent or empty.
	id := part.NormalizeIdentifier(fields.mfgPartNumber)
	if id.IsEmpty() {
		id = part.NormalizeIdentifier(fields.description)
	}
	if id.IsEmpty() {
		return part.ScanPayload{}, ErrEmptyScan
	}

	quantity := int64(1)
	if parsed, err := strconv.ParseInt(strings.TrimSpace(fields.quantity), 10, 64); err == nil && parsed > 0 {
		quantity = parsed
	}

	return part.ScanPayload{
		Kind:          part.ScanStructured,
		RawText:       raw,
		CorrectedText: correctText(raw),
		Fields: part.ScanFields{
			PartNumber:      id,
			Description:     strings.TrimSpace(fields.description),
			Quantity:        quantity,
			CountryOfOrigin: part.NormalizeCountry(fields.countryOfOrigin),
		},
	}, nil
}

type envelopeFields struct {
	customerPartNumber string
	mfgPartNumber      string
	description        string
	quantity           string
	countryOfOrigin    string
}

// parseEnvelope splits an ISO 15434 envelope into its MH10.8.2 data
// identifier fields. Unknown identifiers are ignored.
func parseEnvelope(raw string) envelopeFields {
	body := raw
	if idx := strings.Index(body, StructuredPreamble); idx >= 0 {
		body = body[idx+len(StructuredPreamble):]
	}
	body = strings.ReplaceAll(body, endOfTransmit, "")
	body = strings.ReplaceAll(body, recordSeparator, groupSeparator)

	var fields envelopeFields
	for _, segment := range strings.Split(body, groupSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		// Format header (e.g. "06") carries no data.
		if _, err := strconv.Atoi(segment); err == nil && len(segment) <= 2 {
			continue
		}
		switch {
		case strings.HasPrefix(segment, "1P"):
			fields.mfgPartNumber = segment[2:]
		case strings.HasPrefix(segment, "P"):
			fields.customerPartNumber = segment[1:]
		case strings.HasPrefix(segment, "Q"):
			fields.quantity = segment[1:]
		case strings.HasPrefix(segment, "4L"):
			fields.countryOfOrigin = segment[2:]
		case strings.HasPrefix(segment, "13Z"):
			fields.description = segment[3:]
		case strings.HasPrefix(segment, "Z"):
			if fields.description == "" {
				fields.description = segment[1:]
			}
		}
	}
	// A customer part number is a better fallback than free text.
	if fields.mfgPartNumber == "" && fields.customerPartNumber != "" {
		fields.mfgPartNumber = fields.customerPartNumber
	}
	return fields
}

// correctText renders the envelope with its control characters made visible
// so the barcode can be displayed and used as a stable row identity.
func correctText(raw string) string {
	replacer := strings.NewReplacer(
		recordSeparator, "<RS>",
		groupSeparator, "<GS>",
		endOfTransmit, "<EOT>",
	)
	return strings.TrimSpace(replacer.Replace(raw))
}
