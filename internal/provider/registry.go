package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stockbin/internal/config"
	"stockbin/internal/logging"
	"stockbin/internal/part"
)

// Registry fans lookups out to every enabled provider and folds the results
// into one response. Record order follows provider registration order so the
// first configured supplier produces the first ranked suggestion.
type Registry struct {
	clients []Client
	logger  *slog.Logger
}

// NewRegistry builds a registry over the given clients.
func NewRegistry(logger *slog.Logger, clients ...Client) *Registry {
	return &Registry{
		clients: clients,
		logger:  logging.NewComponentLogger(logger, "provider-registry"),
	}
}

// NewRegistryFromConfig constructs HTTP clients for every enabled provider.
func NewRegistryFromConfig(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	clients := make([]Client, 0, len(cfg.Providers))
	for _, p := range cfg.EnabledProviders() {
		client, err := NewHTTPClient(p.Name, p.BaseURL, p.APIKey, time.Duration(p.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, part.Wrap(part.ErrConfiguration, "provider-registry", "configure", p.Name, err)
		}
		clients = append(clients, client)
	}
	return NewRegistry(logger, clients...), nil
}

// Enabled reports whether any provider is registered.
func (r *Registry) Enabled() bool {
	return len(r.clients) > 0
}

// LookupByIdentifier queries all providers concurrently. Individual provider
// failures become notices on the response; only context cancellation is
// returned as an error.
func (r *Registry) LookupByIdentifier(ctx context.Context, id part.Identifier, hints part.Hints) (Response, error) {
	return r.fanOut(ctx, func(ctx context.Context, client Client) (Response, error) {
		return client.LookupByIdentifier(ctx, id, hints)
	})
}

// LookupByBarcode queries all providers concurrently using the raw barcode.
func (r *Registry) LookupByBarcode(ctx context.Context, barcode string) (Response, error) {
	return r.fanOut(ctx, func(ctx context.Context, client Client) (Response, error) {
		return client.LookupByBarcode(ctx, barcode)
	})
}

func (r *Registry) fanOut(ctx context.Context, lookup func(context.Context, Client) (Response, error)) (Response, error) {
	if len(r.clients) == 0 {
		return Response{}, nil
	}

	type outcome struct {
		response Response
		err      error
	}
	outcomes := make([]outcome, len(r.clients))

	var wg sync.WaitGroup
	for i, client := range r.clients {
		wg.Add(1)
		go func(idx int, c Client) {
			defer wg.Done()
			response, err := lookup(ctx, c)
			outcomes[idx] = outcome{response: response, err: err}
		}(i, client)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	var merged Response
	for i, result := range outcomes {
		name := r.clients[i].Name()
		if result.err != nil {
			r.logger.Warn("provider lookup failed",
				logging.String(logging.FieldSupplier, name),
				logging.Error(result.err),
			)
			merged.Errors = append(merged.Errors, fmt.Sprintf("[%s] %v", name, result.err))
			continue
		}
		if result.response.AuthRequired {
			// Surface the first auth challenge; records from other
			// providers are not applied when a redirect is pending.
			return Response{
				AuthRequired: true,
				RedirectURL:  result.response.RedirectURL,
				APIName:      name,
			}, nil
		}
		for _, message := range result.response.Errors {
			merged.Errors = append(merged.Errors, fmt.Sprintf("[%s] %s", name, message))
		}
		merged.Records = append(merged.Records, result.response.Records...)
	}
	return merged, nil
}
