package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockbin/internal/logging"
	"stockbin/internal/merge"
	"stockbin/internal/part"
	"stockbin/internal/provider"
)

// Channel is a logical category of outstanding request with its own
// cancellation and debounce discipline.
type Channel string

const (
	// ChannelMetadata carries debounced identifier lookups for the form.
	ChannelMetadata Channel = "metadata"
	// ChannelExistence carries read-only local inventory existence checks.
	// It is independent of the metadata channel; the two may race but
	// never update the same field.
	ChannelExistence Channel = "existence"
	// ChannelBarcode carries single-item barcode lookups.
	ChannelBarcode Channel = "barcode"
)

// ResultKind classifies the outcome of a resolve.
type ResultKind string

const (
	// KindMerged carries usable merged metadata.
	KindMerged ResultKind = "merged"
	// KindAuthRequired asks the caller to redirect for re-authentication.
	KindAuthRequired ResultKind = "auth_required"
	// KindNoMatch means no provider produced a usable record. Surfaced as
	// an informational notice, distinct from provider errors.
	KindNoMatch ResultKind = "no_match"
	// KindProviderError means every usable source failed; surfaced as a
	// dismissible notice and retried on the next input change.
	KindProviderError ResultKind = "provider_error"
	// KindCancelled marks a superseded request. Never user-visible.
	KindCancelled ResultKind = "cancelled"
	// KindExists carries an existence-check answer.
	KindExists ResultKind = "exists"
)

// Request describes one resolve on the metadata or barcode channel.
type Request struct {
	Identifier  part.Identifier
	Barcode     string
	Hints       part.Hints
	Attachments []part.Attachment
}

// Result is delivered to the caller once a resolve settles.
type Result struct {
	Kind          ResultKind
	Metadata      part.MergedPartMetadata
	Suggested     part.SupplierPartRecord
	HasSuggestion bool
	RedirectURL   string
	Notices       []string
	Exists        bool
}

// Providers is the provider-layer surface the coordinator consumes.
type Providers interface {
	LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (provider.Response, error)
	LookupByBarcode(ctx context.Context, barcode string) (provider.Response, error)
}

// ExistenceChecker answers exact-match checks against local inventory.
type ExistenceChecker interface {
	ExactMatch(ctx context.Context, id part.Identifier) (bool, error)
}

type channelState struct {
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc

	// apply serializes the superseded re-check with the delivery itself so
	// a stale result can never land after a newer one on the same channel.
	apply sync.Mutex
}

// Coordinator owns the per-channel in-flight request handles. Tokens are
// replaced atomically on every new request.
type Coordinator struct {
	providers Providers
	inventory ExistenceChecker
	window    time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	channels map[Channel]*channelState
	closed   bool
	wg       sync.WaitGroup
}

// NewCoordinator builds a coordinator with the given debounce window.
// The inventory checker may be nil when existence checks are disabled.
func NewCoordinator(providers Providers, inventory ExistenceChecker, window time.Duration, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		providers: providers,
		inventory: inventory,
		window:    window,
		logger:    logging.NewComponentLogger(logger, "lookup"),
		channels:  make(map[Channel]*channelState),
	}
}

// Resolve schedules a debounced identifier lookup on the metadata channel.
// The previous outstanding request on the channel is cancelled first. The
// deliver callback receives at most one Result; a resolve superseded while
// still waiting out the window never fires at all.
func (c *Coordinator) Resolve(req Request, deliver func(Result)) {
	c.schedule(ChannelMetadata, c.window, req, deliver, c.identifierWork)
}

// ResolveBarcode schedules an immediate barcode lookup on the barcode
// channel, superseding any outstanding barcode request.
func (c *Coordinator) ResolveBarcode(req Request, deliver func(Result)) {
	c.schedule(ChannelBarcode, 0, req, deliver, c.barcodeWork)
}

// ResolveNow performs a synchronous identifier lookup outside the channel
// discipline. Used by the bulk session's background enrichment, where each
// item owns its own context.
func (c *Coordinator) ResolveNow(ctx context.Context, req Request) Result {
	response, err := c.providers.LookupByIdentifier(ctx, req.Identifier, req.Hints)
	return c.classify(response, err, req)
}

// ResolveBarcodeNow performs a synchronous barcode lookup outside the
// channel discipline.
func (c *Coordinator) ResolveBarcodeNow(ctx context.Context, req Request) Result {
	response, err := c.providers.LookupByBarcode(ctx, req.Barcode)
	return c.classify(response, err, req)
}

// CheckExists runs an exact-match existence check on its own channel. The
// callback receives the answer unless the check was superseded; failures are
// logged and swallowed, the check is advisory.
func (c *Coordinator) CheckExists(id part.Identifier, deliver func(exists bool)) {
	if c.inventory == nil {
		return
	}
	c.schedule(ChannelExistence, 0, Request{Identifier: id}, func(result Result) {
		if result.Kind == KindExists {
			deliver(result.Exists)
		}
	}, func(ctx context.Context, req Request) Result {
		exists, err := c.inventory.ExactMatch(ctx, req.Identifier)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				c.logger.Warn("existence check failed", logging.Error(err))
			}
			return Result{Kind: KindCancelled}
		}
		return Result{Kind: KindExists, Exists: exists}
	})
}

// Close cancels all outstanding requests and waits for them to settle.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	for _, state := range c.channels {
		if state.timer != nil {
			state.timer.Stop()
		}
		if state.cancel != nil {
			state.cancel()
		}
		state.generation++
	}
	c.mu.Unlock()
	c.wg.Wait()
}

type workFunc func(ctx context.Context, req Request) Result

func (c *Coordinator) identifierWork(ctx context.Context, req Request) Result {
	response, err := c.providers.LookupByIdentifier(ctx, req.Identifier, req.Hints)
	return c.classify(response, err, req)
}

func (c *Coordinator) barcodeWork(ctx context.Context, req Request) Result {
	response, err := c.providers.LookupByBarcode(ctx, req.Barcode)
	return c.classify(response, err, req)
}

// schedule replaces the channel's outstanding request with a new one. The
// old request's timer is stopped and its context cancelled before the new
// request is armed.
func (c *Coordinator) schedule(channel Channel, delay time.Duration, req Request, deliver func(Result), work workFunc) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	state, ok := c.channels[channel]
	if !ok {
		state = &channelState{}
		c.channels[channel] = state
	}
	state.generation++
	generation := state.generation
	if state.timer != nil {
		state.timer.Stop()
		state.timer = nil
	}
	if state.cancel != nil {
		state.cancel()
		state.cancel = nil
	}

	requestID := uuid.NewString()
	run := func() { c.run(channel, generation, requestID, req, deliver, work) }
	if delay <= 0 {
		c.mu.Unlock()
		go run()
		return
	}
	state.timer = time.AfterFunc(delay, run)
	c.mu.Unlock()
}

func (c *Coordinator) run(channel Channel, generation uint64, requestID string, req Request, deliver func(Result), work workFunc) {
	c.mu.Lock()
	state := c.channels[channel]
	if c.closed || state == nil || state.generation != generation {
		c.mu.Unlock()
		c.deliverResult(deliver, Result{Kind: KindCancelled})
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	state.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	defer cancel()

	logger := c.logger.With(
		logging.String(logging.FieldChannel, string(channel)),
		logging.String(logging.FieldRequestID, requestID),
	)
	logger.Debug("lookup started", logging.String("identifier", req.Identifier.String()))

	result := work(ctx, req)

	// Hold the apply lock across both the generation re-check and the
	// delivery. Without it a newer request could settle between the two and
	// be overwritten by this stale result.
	state.apply.Lock()
	defer state.apply.Unlock()

	c.mu.Lock()
	superseded := c.closed || state.generation != generation
	c.mu.Unlock()

	if superseded {
		// A newer request owns the channel; this result must never be
		// applied.
		c.deliverResult(deliver, Result{Kind: KindCancelled})
		return
	}
	logger.Debug("lookup settled", logging.String("result", string(result.Kind)))
	c.deliverResult(deliver, result)
}

func (c *Coordinator) deliverResult(deliver func(Result), result Result) {
	if deliver != nil {
		deliver(result)
	}
}

// classify converts the provider layer's response into a Result, merging
// records with any prior local attachments.
func (c *Coordinator) classify(response provider.Response, err error, req Request) Result {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Result{Kind: KindCancelled}
		}
		return Result{Kind: KindProviderError, Notices: []string{err.Error()}}
	}
	if response.AuthRequired {
		return Result{Kind: KindAuthRequired, RedirectURL: response.RedirectURL}
	}

	merged := merge.Merge(response.Records, req.Attachments)
	if !merged.HasMetadata() {
		if len(response.Errors) > 0 {
			return Result{Kind: KindProviderError, Notices: response.Errors}
		}
		return Result{Kind: KindNoMatch}
	}

	result := Result{Kind: KindMerged, Metadata: merged, Notices: response.Errors}
	if suggested, ok := merged.Suggested(); ok {
		result.Suggested = suggested
		result.HasSuggestion = true
	}
	return result
}
