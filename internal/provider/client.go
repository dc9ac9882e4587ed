package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockbin/internal/part"
)

// HTTPClient talks to one supplier metadata endpoint.
type HTTPClient struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewHTTPClient creates a supplier metadata client.
func NewHTTPClient(name, baseURL, apiKey string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("provider name required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("provider base url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &HTTPClient{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name returns the supplier name this client represents.
func (c *HTTPClient) Name() string {
	return c.name
}

// LookupByIdentifier queries the supplier for records matching the
// identifier, passing any known supplier part numbers as hints.
func (c *HTTPClient) LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (Response, error) {
	if id.IsEmpty() {
		return Response{}, part.Wrap(part.ErrValidation, c.name, "lookup", "empty identifier", nil)
	}
	params := url.Values{}
	params.Set("partNumber", id.String())
	if !hints.IsZero() {
		params.Set("supplierPartNumbers", encodeHints(hints))
	}
	return c.get(ctx, "/parts/info", params)
}

// LookupByBarcode queries the supplier using the raw barcode payload.
func (c *HTTPClient) LookupByBarcode(ctx context.Context, barcode string) (Response, error) {
	if strings.TrimSpace(barcode) == "" {
		return Response{}, part.Wrap(part.ErrValidation, c.name, "barcode lookup", "empty barcode", nil)
	}
	params := url.Values{}
	params.Set("barcode", barcode)
	return c.get(ctx, "/parts/barcode", params)
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) (Response, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, part.Wrap(part.ErrProvider, c.name, "build request", "", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, part.Wrap(part.ErrProvider, c.name, "request", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, part.Wrap(part.ErrProvider, c.name, "request", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Response{}, part.Wrap(part.ErrProvider, c.name, "decode response", "", err)
	}
	if decoded.APIName == "" {
		decoded.APIName = c.name
	}
	return decoded, nil
}

// encodeHints serializes supplier hints the way the metadata gateway expects:
// "digikey:<pn>,mouser:<pn>,arrow:<pn>".
func encodeHints(hints part.Hints) string {
	return strings.Join([]string{
		"digikey:" + hints.DigiKeyPartNumber,
		"mouser:" + hints.MouserPartNumber,
		"arrow:" + hints.ArrowPartNumber,
	}, ",")
}
