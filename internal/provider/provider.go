package provider

import (
	"context"

	"stockbin/internal/part"
)

// Response is the shape every lookup returns. AuthRequired signals that the
// supplier needs interactive re-authentication; the caller should surface
// RedirectURL and leave the working record untouched.
type Response struct {
	AuthRequired bool                      `json:"requiresAuthentication"`
	RedirectURL  string                    `json:"redirectUrl"`
	APIName      string                    `json:"apiName"`
	Errors       []string                  `json:"errors"`
	Records      []part.SupplierPartRecord `json:"parts"`
}

// Client is one supplier metadata integration.
type Client interface {
	Name() string
	LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (Response, error)
	LookupByBarcode(ctx context.Context, barcode string) (Response, error)
}
