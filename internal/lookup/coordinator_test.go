package lookup

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stockbin/internal/logging"
	"stockbin/internal/part"
	"stockbin/internal/provider"
)

// blockingProviders lets tests hold lookups open until released.
type blockingProviders struct {
	mu       sync.Mutex
	pending  map[string]chan provider.Response
	barcodes map[string]provider.Response
	calls    atomic.Int64
}

func newBlockingProviders() *blockingProviders {
	return &blockingProviders{
		pending:  make(map[string]chan provider.Response),
		barcodes: make(map[string]provider.Response),
	}
}

func (p *blockingProviders) gate(id string) chan provider.Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.pending[id]
	if !ok {
		ch = make(chan provider.Response, 1)
		p.pending[id] = ch
	}
	return ch
}

func (p *blockingProviders) LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (provider.Response, error) {
	p.calls.Add(1)
	select {
	case response := <-p.gate(id.String()):
		return response, nil
	case <-ctx.Done():
		return provider.Response{}, ctx.Err()
	}
}

func (p *blockingProviders) LookupByBarcode(ctx context.Context, barcode string) (provider.Response, error) {
	p.mu.Lock()
	response, ok := p.barcodes[barcode]
	p.mu.Unlock()
	if !ok {
		return provider.Response{}, nil
	}
	return response, nil
}

func responseFor(mfrPN string) provider.Response {
	return provider.Response{
		Records: []part.SupplierPartRecord{{
			Supplier:               part.SupplierDigiKey,
			ManufacturerPartNumber: mfrPN,
			BasePartNumber:         mfrPN,
		}},
	}
}

func collectResults() (func(Result), <-chan Result) {
	ch := make(chan Result, 16)
	return func(r Result) { ch <- r }, ch
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case result := <-ch:
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for lookup result")
		return Result{}
	}
}

func TestResolveAppliesOnlyLastIssuedLookup(t *testing.T) {
	providers := newBlockingProviders()
	coordinator := NewCoordinator(providers, nil, time.Millisecond, logging.NewNop())
	defer coordinator.Close()

	staleDeliver, staleResults := collectResults()
	freshDeliver, freshResults := collectResults()

	coordinator.Resolve(Request{Identifier: "LM35"}, staleDeliver)
	coordinator.Resolve(Request{Identifier: "LM358"}, freshDeliver)

	providers.gate("LM35") <- responseFor("LM35")
	providers.gate("LM358") <- responseFor("LM358")

	fresh := waitResult(t, freshResults)
	if fresh.Kind != KindMerged {
		t.Fatalf("expected merged result for the newest lookup, got %s", fresh.Kind)
	}
	if fresh.Suggested.ManufacturerPartNumber != "LM358" {
		t.Fatalf("unexpected suggestion %q", fresh.Suggested.ManufacturerPartNumber)
	}

	// The superseded lookup settles as a silent cancellation if it
	// surfaces at all; it must never deliver merged metadata.
	select {
	case result := <-staleResults:
		if result.Kind != KindCancelled {
			t.Fatalf("stale lookup delivered %s", result.Kind)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSupersededResultNeverLandsAfterNewerDelivery(t *testing.T) {
	providers := newBlockingProviders()
	coordinator := NewCoordinator(providers, nil, 0, logging.NewNop())
	defer coordinator.Close()

	var (
		mu      sync.Mutex
		applied []string
	)
	record := func(tag string) {
		mu.Lock()
		applied = append(applied, tag)
		mu.Unlock()
	}

	olderDelivering := make(chan struct{})
	releaseOlder := make(chan struct{})

	coordinator.Resolve(Request{Identifier: "LM35"}, func(r Result) {
		if r.Kind != KindMerged {
			return
		}
		close(olderDelivering)
		<-releaseOlder
		record("LM35")
	})
	providers.gate("LM35") <- responseFor("LM35")

	// Wait until the older lookup is mid-delivery, then issue a newer one
	// that settles straight away.
	<-olderDelivering
	freshDone := make(chan struct{})
	coordinator.Resolve(Request{Identifier: "LM358"}, func(r Result) {
		if r.Kind == KindMerged {
			record("LM358")
		}
		close(freshDone)
	})
	providers.gate("LM358") <- responseFor("LM358")

	// Give the newer lookup every chance to race ahead before letting the
	// older delivery finish.
	waitForCalls(t, &providers.calls, 2)
	time.Sleep(50 * time.Millisecond)
	close(releaseOlder)

	select {
	case <-freshDone:
	case <-time.After(5 * time.Second):
		t.Fatal("newer lookup never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(applied) == 0 || applied[len(applied)-1] != "LM358" {
		t.Fatalf("newest result must be applied last, got %v", applied)
	}
}

func TestResolveDebouncesRapidEdits(t *testing.T) {
	providers := newBlockingProviders()
	coordinator := NewCoordinator(providers, nil, 100*time.Millisecond, logging.NewNop())
	defer coordinator.Close()

	deliver, results := collectResults()
	providers.gate("LM358N") <- responseFor("LM358N")

	for _, partial := range []string{"L", "LM", "LM3", "LM35", "LM358", "LM358N"} {
		coordinator.Resolve(Request{Identifier: part.Identifier(partial)}, deliver)
	}

	result := waitResult(t, results)
	if result.Kind != KindMerged {
		t.Fatalf("expected merged result, got %s", result.Kind)
	}
	if got := providers.calls.Load(); got != 1 {
		t.Fatalf("expected a single provider call after quiescence, got %d", got)
	}
}

func TestResolveCancellationIsNeverAnError(t *testing.T) {
	providers := newBlockingProviders()
	coordinator := NewCoordinator(providers, nil, time.Millisecond, logging.NewNop())

	deliver, results := collectResults()
	coordinator.Resolve(Request{Identifier: "LM358"}, deliver)

	// Wait for the request to be in flight, then close the coordinator
	// so the context is cancelled.
	waitForCalls(t, &providers.calls, 1)
	coordinator.Close()

	result := waitResult(t, results)
	if result.Kind != KindCancelled {
		t.Fatalf("cancelled lookup must settle as KindCancelled, got %s", result.Kind)
	}
	if len(result.Notices) != 0 {
		t.Fatalf("cancellation must not carry notices, got %v", result.Notices)
	}
}

func TestExistenceCheckRunsOnIndependentChannel(t *testing.T) {
	providers := newBlockingProviders()
	checker := &stubChecker{exists: true}
	coordinator := NewCoordinator(providers, checker, time.Millisecond, logging.NewNop())
	defer coordinator.Close()

	deliver, results := collectResults()
	coordinator.Resolve(Request{Identifier: "LM358"}, deliver)

	answered := make(chan bool, 1)
	coordinator.CheckExists("LM358", func(exists bool) { answered <- exists })

	select {
	case exists := <-answered:
		if !exists {
			t.Fatal("expected existence check to answer true")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("existence check never answered")
	}

	// The metadata channel is untouched by the existence check.
	providers.gate("LM358") <- responseFor("LM358")
	if result := waitResult(t, results); result.Kind != KindMerged {
		t.Fatalf("metadata lookup should still settle, got %s", result.Kind)
	}
}

func TestClassifyAuthRequiredLeavesRecordUntouched(t *testing.T) {
	coordinator := NewCoordinator(newBlockingProviders(), nil, 0, logging.NewNop())
	defer coordinator.Close()

	result := coordinator.classify(provider.Response{AuthRequired: true, RedirectURL: "https://supplier.example/oauth"}, nil, Request{})
	if result.Kind != KindAuthRequired {
		t.Fatalf("expected auth required, got %s", result.Kind)
	}
	if result.RedirectURL != "https://supplier.example/oauth" {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}
	if result.HasSuggestion {
		t.Fatal("auth challenge must not carry a suggestion")
	}
}

func TestClassifyDistinguishesNoMatchFromProviderError(t *testing.T) {
	coordinator := NewCoordinator(newBlockingProviders(), nil, 0, logging.NewNop())
	defer coordinator.Close()

	noMatch := coordinator.classify(provider.Response{}, nil, Request{})
	if noMatch.Kind != KindNoMatch {
		t.Fatalf("expected no match, got %s", noMatch.Kind)
	}

	failed := coordinator.classify(provider.Response{Errors: []string{"[DigiKey] 500"}}, nil, Request{})
	if failed.Kind != KindProviderError {
		t.Fatalf("expected provider error, got %s", failed.Kind)
	}

	// Attachments alone count as metadata even with zero records.
	withAttachment := coordinator.classify(provider.Response{}, nil, Request{
		Attachments: []part.Attachment{{Category: part.CategoryDatasheet, Name: "ds.pdf", URL: "/files/ds.pdf"}},
	})
	if withAttachment.Kind != KindMerged {
		t.Fatalf("expected merged result from attachments, got %s", withAttachment.Kind)
	}
}

type stubChecker struct {
	exists bool
}

func (s *stubChecker) ExactMatch(ctx context.Context, id part.Identifier) (bool, error) {
	return s.exists, nil
}

func waitForCalls(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d provider calls", want)
}
