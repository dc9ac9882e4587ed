package part

import (
	"strings"
	"unicode"
)

// Identifier is a normalized part or supplier-part key. It is never empty
// when passed downstream; use NormalizeIdentifier to produce one.
type Identifier string

// NormalizeIdentifier trims surrounding whitespace and strips control
// characters injected by keyboard-emulating scanners (stray tabs are the
// common case). Returns the empty Identifier when nothing usable remains.
func NormalizeIdentifier(raw string) Identifier {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	return Identifier(strings.TrimSpace(cleaned))
}

// IsEmpty reports whether the identifier carries no usable value.
func (id Identifier) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id Identifier) String() string {
	return string(id)
}

// Equal compares identifiers case-insensitively, matching how supplier
// catalogs treat part numbers.
func (id Identifier) Equal(other Identifier) bool {
	return strings.EqualFold(string(id), string(other))
}
