package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stockbin/internal/logging"
	"stockbin/internal/part"
)

type stubClient struct {
	name     string
	response Response
	err      error
}

func (s *stubClient) Name() string { return s.name }

func (s *stubClient) LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (Response, error) {
	return s.response, s.err
}

func (s *stubClient) LookupByBarcode(ctx context.Context, barcode string) (Response, error) {
	return s.response, s.err
}

func record(supplier, mfrPN string) part.SupplierPartRecord {
	return part.SupplierPartRecord{Supplier: supplier, ManufacturerPartNumber: mfrPN}
}

func TestRegistryPreservesProviderOrder(t *testing.T) {
	registry := NewRegistry(logging.NewNop(),
		&stubClient{name: "DigiKey", response: Response{Records: []part.SupplierPartRecord{record("DigiKey", "LM358N")}}},
		&stubClient{name: "Mouser", response: Response{Records: []part.SupplierPartRecord{record("Mouser", "LM358N")}}},
	)

	response, err := registry.LookupByIdentifier(context.Background(), "LM358", part.Hints{})
	if err != nil {
		t.Fatalf("LookupByIdentifier returned error: %v", err)
	}
	if len(response.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(response.Records))
	}
	if response.Records[0].Supplier != "DigiKey" || response.Records[1].Supplier != "Mouser" {
		t.Fatalf("records out of order: %+v", response.Records)
	}
}

func TestRegistryCollectsProviderFailuresAsNotices(t *testing.T) {
	registry := NewRegistry(logging.NewNop(),
		&stubClient{name: "DigiKey", err: part.Wrap(part.ErrProvider, "DigiKey", "request", "boom", nil)},
		&stubClient{name: "Mouser", response: Response{Records: []part.SupplierPartRecord{record("Mouser", "LM358N")}}},
	)

	response, err := registry.LookupByIdentifier(context.Background(), "LM358", part.Hints{})
	if err != nil {
		t.Fatalf("LookupByIdentifier returned error: %v", err)
	}
	if len(response.Records) != 1 {
		t.Fatalf("expected surviving provider records, got %d", len(response.Records))
	}
	if len(response.Errors) != 1 || !strings.Contains(response.Errors[0], "[DigiKey]") {
		t.Fatalf("expected DigiKey notice, got %v", response.Errors)
	}
}

func TestRegistryShortCircuitsOnAuthChallenge(t *testing.T) {
	registry := NewRegistry(logging.NewNop(),
		&stubClient{name: "DigiKey", response: Response{AuthRequired: true, RedirectURL: "https://supplier.example/oauth"}},
		&stubClient{name: "Mouser", response: Response{Records: []part.SupplierPartRecord{record("Mouser", "LM358N")}}},
	)

	response, err := registry.LookupByIdentifier(context.Background(), "LM358", part.Hints{})
	if err != nil {
		t.Fatalf("LookupByIdentifier returned error: %v", err)
	}
	if !response.AuthRequired {
		t.Fatal("expected auth required response")
	}
	if len(response.Records) != 0 {
		t.Fatal("records must not be applied while a redirect is pending")
	}
}

func TestRegistryReturnsContextCancellation(t *testing.T) {
	registry := NewRegistry(logging.NewNop(),
		&stubClient{name: "DigiKey", response: Response{}},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := registry.LookupByIdentifier(ctx, "LM358", part.Hints{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
